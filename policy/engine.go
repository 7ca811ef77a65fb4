// Package policy evaluates routing decisions against an OPA policy before an
// agent is invoked.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the routing policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.routing_policy.decision"),
		rego.Module("routing_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// RoutingInput is the policy input for one routing decision.
type RoutingInput struct {
	Agent      string  `json:"agent"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Evaluate checks whether the routed agent may be invoked. It returns
// DecisionAllow or DecisionBlock; policies without a matching rule default to
// allow.
func (e *Engine) Evaluate(ctx context.Context, input RoutingInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default routing policy: allow everything except
// decisions the model itself is unsure about.
const DefaultPolicy = `
package routing_policy

default decision = "allow"

decision = "block" {
	input.confidence < 0.2
}
`
