package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/transcript"
	"github.com/xiaot623/agentrouter/workflow"
)

// WorkflowAgent drives the streaming invoke protocol against a workflow
// endpoint.
type WorkflowAgent struct {
	card       domain.AgentCard
	workflowID string
	client     *workflow.Client
	logger     *slog.Logger
}

// NewWorkflowAgent creates a workflow agent. A card without an invoke_url is
// a fatal configuration error.
func NewWorkflowAgent(card domain.AgentCard, workflowID string, client *workflow.Client, logger *slog.Logger) (*WorkflowAgent, error) {
	if card.API.InvokeURL == "" {
		return nil, fmt.Errorf("agent card %q has no invoke_url configured", card.Name)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkflowAgent{
		card:       card,
		workflowID: workflowID,
		client:     client,
		logger:     logger,
	}, nil
}

func (a *WorkflowAgent) Name() string           { return a.card.Name }
func (a *WorkflowAgent) Kind() domain.AgentKind { return domain.AgentKindWorkflow }
func (a *WorkflowAgent) Card() domain.AgentCard { return a.card }

// Ask runs the full invocation and returns the rendered transcript. The
// endpoint was validated at construction, so invoke errors here can only be
// caller mistakes; they are still rendered as text to keep the contract.
func (a *WorkflowAgent) Ask(ctx context.Context, query string) string {
	out, err := a.client.Invoke(ctx, a.workflowID, a.card.API.InvokeURL, query)
	if err != nil {
		a.logger.Error("workflow invocation rejected", "agent", a.card.Name, "error", err)
		return transcript.TagError + " " + err.Error()
	}
	return out
}
