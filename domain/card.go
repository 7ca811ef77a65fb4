package domain

// AgentKind distinguishes the two agent flavors at construction time:
// workflow agents drive the streaming invoke protocol, chat agents answer a
// single request/response exchange.
type AgentKind string

const (
	AgentKindChat     AgentKind = "chat"
	AgentKindWorkflow AgentKind = "workflow"
)

// KindFromCategory maps a directory entry's category field to an AgentKind.
func KindFromCategory(category string) AgentKind {
	if category == "workflow" {
		return AgentKindWorkflow
	}
	return AgentKindChat
}

// AgentSkill describes one advertised capability on an agent card.
type AgentSkill struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// AgentAPI holds the extra endpoints a card may advertise.
type AgentAPI struct {
	InvokeURL string `json:"invoke_url,omitempty"`
}

// AgentParameters holds per-agent invocation parameters.
type AgentParameters struct {
	Model string `json:"model,omitempty"`
}

// AgentCard is the self-description document fetched from an agent's URL.
type AgentCard struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Version     string          `json:"version,omitempty"`
	Category    string          `json:"category,omitempty"`
	Kind        AgentKind       `json:"-"`
	Skills      []AgentSkill    `json:"skills,omitempty"`
	API         AgentAPI        `json:"api,omitempty"`
	Parameters  AgentParameters `json:"parameters,omitempty"`
}

// DirectoryEntry is one entry of the agent.json directory document.
type DirectoryEntry struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Model string `json:"model,omitempty"`
}

// Directory is the agent.json document.
type Directory struct {
	Agents []DirectoryEntry `json:"agents"`
}
