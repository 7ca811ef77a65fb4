package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCards() []domain.AgentCard {
	return []domain.AgentCard{
		{Name: "weather-agent", Description: "weather lookups"},
		{Name: "math-agent", Description: "calculations"},
	}
}

func TestRouteParsesModelDecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"{\"agent\": \"weather-agent\", \"confidence\": 0.92}"}}]}`)
	}))
	defer server.Close()

	r := New(llm.NewClient(server.URL, "", time.Second), "test-model", testLogger())
	name, confidence, err := r.Route(context.Background(), "will it rain", testCards())
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if name != "weather-agent" || confidence != 0.92 {
		t.Fatalf("unexpected decision: %q %v", name, confidence)
	}
}

func TestRouteNoAgents(t *testing.T) {
	r := New(llm.NewClient("http://unused", "", time.Second), "m", testLogger())
	if _, _, err := r.Route(context.Background(), "q", nil); err == nil {
		t.Fatalf("expected error with no cards")
	}
}

func TestParseDecisionJSON(t *testing.T) {
	name, confidence := parseDecision(`{"agent": "math-agent", "confidence": 0.8}`, testCards())
	if name != "math-agent" || confidence != 0.8 {
		t.Fatalf("unexpected decision: %q %v", name, confidence)
	}
}

func TestParseDecisionWrappedJSON(t *testing.T) {
	reply := "Sure, here is my pick:\n{\"agent\": \"Weather-Agent\", \"confidence\": 1.5}\nDone."
	name, confidence := parseDecision(reply, testCards())
	if name != "weather-agent" {
		t.Fatalf("unexpected agent: %q", name)
	}
	// Out-of-range confidence falls back to the default.
	if confidence != defaultConfidence {
		t.Fatalf("unexpected confidence: %v", confidence)
	}
}

func TestParseDecisionFreeFormFallback(t *testing.T) {
	name, confidence := parseDecision("I would use the math-agent for this.", testCards())
	if name != "math-agent" || confidence != defaultConfidence {
		t.Fatalf("unexpected decision: %q %v", name, confidence)
	}
}

func TestParseDecisionUnknownAgent(t *testing.T) {
	name, _ := parseDecision(`{"agent": "nonexistent", "confidence": 0.9}`, testCards())
	if name != "" {
		t.Fatalf("unknown agent must not match, got %q", name)
	}
}
