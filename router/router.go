// Package router selects the agent best suited for a query by asking an LLM.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/llm"
)

const systemPrompt = `You are an intelligent query router. Given the user query and the available agents, pick the single agent best suited to handle the request.
Read each agent's description, skills and examples carefully before deciding.
Reply with a JSON object of the form {"agent": "<agent name>", "confidence": <0.0-1.0>} and nothing else.`

// defaultConfidence is used when the model names an agent but omits a usable
// confidence score.
const defaultConfidence = 0.5

// Router routes queries to agents through a chat-completion model.
type Router struct {
	client *llm.Client
	model  string
	logger *slog.Logger
}

// New creates a router backed by the given LLM client and model.
func New(client *llm.Client, model string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{client: client, model: model, logger: logger}
}

// Route returns the selected agent name and the model's confidence.
func (r *Router) Route(ctx context.Context, query string, cards []domain.AgentCard) (string, float64, error) {
	if len(cards) == 0 {
		return "", 0, fmt.Errorf("no agents available for routing")
	}

	temperature := 0.0
	resp, err := r.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: r.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildRoutingPrompt(query, cards)},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", 0, fmt.Errorf("routing request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", 0, fmt.Errorf("routing model returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	name, confidence := parseDecision(reply, cards)
	if name == "" {
		return "", 0, fmt.Errorf("routing model selected no known agent: %q", reply)
	}
	r.logger.Info("routing decision", "agent", name, "confidence", confidence)
	return name, confidence, nil
}

func buildRoutingPrompt(query string, cards []domain.AgentCard) string {
	var b strings.Builder
	b.WriteString("Available agents:\n")
	for _, card := range cards {
		fmt.Fprintf(&b, "- %s: %s\n", card.Name, card.Description)
		for _, skill := range card.Skills {
			fmt.Fprintf(&b, "  skill %s: %s", skill.Name, skill.Description)
			if len(skill.Examples) > 0 {
				fmt.Fprintf(&b, " (examples: %s)", strings.Join(skill.Examples, "; "))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nUser query: %s\n", query)
	return b.String()
}

// parseDecision extracts the chosen agent from the model reply. The JSON
// shape is preferred; free-form replies fall back to a name match.
func parseDecision(reply string, cards []domain.AgentCard) (string, float64) {
	var decision struct {
		Agent      string  `json:"agent"`
		Confidence float64 `json:"confidence"`
	}
	if start := strings.Index(reply, "{"); start >= 0 {
		if end := strings.LastIndex(reply, "}"); end > start {
			if err := json.Unmarshal([]byte(reply[start:end+1]), &decision); err == nil && decision.Agent != "" {
				if name := matchName(decision.Agent, cards); name != "" {
					confidence := decision.Confidence
					if confidence <= 0 || confidence > 1 {
						confidence = defaultConfidence
					}
					return name, confidence
				}
			}
		}
	}
	if name := matchName(reply, cards); name != "" {
		return name, defaultConfidence
	}
	return "", 0
}

// matchName resolves a model-provided name against the known cards, exact
// match first, then containment in either direction.
func matchName(candidate string, cards []domain.AgentCard) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	for _, card := range cards {
		if strings.EqualFold(candidate, card.Name) {
			return card.Name
		}
	}
	lower := strings.ToLower(candidate)
	for _, card := range cards {
		name := strings.ToLower(card.Name)
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return card.Name
		}
	}
	return ""
}
