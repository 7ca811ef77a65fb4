package domain

import "encoding/json"

// Event statuses emitted by the workflow endpoint. Anything other than "end"
// marks a partial update.
const StatusEnd = "end"

// Workflow event types. The interpreter dispatches on these.
const (
	EventGuideWord           = "guide_word"
	EventOutputMsg           = "output_msg"
	EventOutputWithInputMsg  = "output_with_input_msg"
	EventOutputWithChooseMsg = "output_with_choose_msg"
	EventStreamMsg           = "stream_msg"
	EventGuideQuestion       = "guide_question"
	EventInput               = "input"
	EventClose               = "close"
	EventEnd                 = "end"
	EventError               = "error"
	EventSuccess             = "success"
	EventFailure             = "failure"
)

// InputKeyUserInput is the only input field this client can satisfy: the
// original query is re-submitted under this key on round two.
const InputKeyUserInput = "user_input"

// WorkflowEvent is one decoded event from the invoke stream.
type WorkflowEvent struct {
	Type         string        `json:"event"`
	Status       string        `json:"status"`
	NodeID       string        `json:"node_id,omitempty"`
	Message      string        `json:"message,omitempty"`
	OutputSchema *OutputSchema `json:"output_schema,omitempty"`
	InputSchema  *InputSchema  `json:"input_schema,omitempty"`
}

// OutputSchema carries the renderable payload of an event.
type OutputSchema struct {
	Message MessageText `json:"message,omitempty"`
	Files   []FileRef   `json:"files,omitempty"`
}

// InputSchema describes an interactive input the workflow is requesting.
type InputSchema struct {
	Value []InputField `json:"value,omitempty"`
}

// InputField is one requested input entry.
type InputField struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
}

// FileRef is one embedded media entry. Additional wire fields are ignored.
type FileRef struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// MessageText accepts the two wire shapes of output_schema.message: a plain
// string for most events, a string list for guide_question.
type MessageText struct {
	Text string
	List []string
}

func (m *MessageText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		m.Text = s
		m.List = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	m.List = list
	m.Text = ""
	return nil
}

func (m MessageText) MarshalJSON() ([]byte, error) {
	if m.List != nil {
		return json.Marshal(m.List)
	}
	return json.Marshal(m.Text)
}

// StreamEnvelope is one decoded `data:` line. The endpoint emits either
// {session_id, data:{event...}} or the inner event object directly at top
// level; both shapes are accepted.
type StreamEnvelope struct {
	SessionID string
	Event     WorkflowEvent
}

// UnmarshalJSON decodes the envelope shape first and falls back to treating
// the whole object as the inner event.
func (e *StreamEnvelope) UnmarshalJSON(b []byte) error {
	var outer struct {
		SessionID string          `json:"session_id"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &outer); err != nil {
		return err
	}
	e.SessionID = outer.SessionID
	if len(outer.Data) > 0 && string(outer.Data) != "null" {
		return json.Unmarshal(outer.Data, &e.Event)
	}
	return json.Unmarshal(b, &e.Event)
}

// QueryInput is the structured round-two payload keyed by node id.
type QueryInput map[string]map[string]string

// InvokePayload is the request body for one streaming round.
type InvokePayload struct {
	WorkflowID string     `json:"workflow_id"`
	Stream     bool       `json:"stream"`
	SessionID  string     `json:"session_id,omitempty"`
	Input      QueryInput `json:"input,omitempty"`
}
