// Package agent implements the two remote agent flavors the router can
// dispatch to: plain chat agents and streaming workflow agents.
package agent

import (
	"context"

	"github.com/xiaot623/agentrouter/domain"
)

// Agent is a remote agent the router can ask. Ask always produces renderable
// text: remote failures are reported inside the answer, never as a Go error.
type Agent interface {
	Name() string
	Kind() domain.AgentKind
	Card() domain.AgentCard
	Ask(ctx context.Context, query string) string
}
