package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/workflow"
)

func TestNewWorkflowAgentRequiresInvokeURL(t *testing.T) {
	client := workflow.NewClient(time.Second, 10, testLogger())
	_, err := NewWorkflowAgent(domain.AgentCard{Name: "wf"}, "wf-1", client, testLogger())
	if err == nil {
		t.Fatalf("expected error for card without invoke_url")
	}
}

func TestWorkflowAgentAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"session_id\":\"s1\",\"data\":{\"event\":\"output_msg\",\"status\":\"end\",\"output_schema\":{\"message\":\"routed answer\"}}}\n")
		fmt.Fprint(w, "data: {\"session_id\":\"s1\",\"data\":{\"event\":\"end\",\"status\":\"end\"}}\n")
	}))
	defer server.Close()

	client := workflow.NewClient(time.Second, 10, testLogger())
	card := domain.AgentCard{Name: "wf", API: domain.AgentAPI{InvokeURL: server.URL}}
	a, err := NewWorkflowAgent(card, "wf-1", client, testLogger())
	if err != nil {
		t.Fatalf("NewWorkflowAgent failed: %v", err)
	}

	if got := a.Ask(context.Background(), "q"); got != "🤖 AI answer: routed answer" {
		t.Fatalf("unexpected answer: %q", got)
	}
	if a.Kind() != domain.AgentKindWorkflow {
		t.Fatalf("unexpected kind: %v", a.Kind())
	}
}

func TestWorkflowAgentAskRendersInvokeError(t *testing.T) {
	client := workflow.NewClient(time.Second, 10, testLogger())
	card := domain.AgentCard{Name: "wf", API: domain.AgentAPI{InvokeURL: "http://unused"}}
	a, err := NewWorkflowAgent(card, "wf-1", client, testLogger())
	if err != nil {
		t.Fatalf("NewWorkflowAgent failed: %v", err)
	}

	got := a.Ask(context.Background(), "   ")
	if got != "❌ Error: query must not be empty" {
		t.Fatalf("unexpected answer: %q", got)
	}
}
