package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xiaot623/agentrouter/agent"
	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/workflow"
)

// Network is the cache of constructed agents, shared by the HTTP handlers.
// It is rebuilt wholesale through Rebuild and read under a shared lock; no
// package-level state is involved.
type Network struct {
	fetcher        *Fetcher
	workflowClient *workflow.Client
	chatTimeout    time.Duration
	logger         *slog.Logger

	mu     sync.RWMutex
	agents map[string]agent.Agent
	cards  []domain.AgentCard
}

// NewNetwork creates an empty network.
func NewNetwork(fetcher *Fetcher, workflowClient *workflow.Client, chatTimeout time.Duration, logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	return &Network{
		fetcher:        fetcher,
		workflowClient: workflowClient,
		chatTimeout:    chatTimeout,
		logger:         logger,
		agents:         map[string]agent.Agent{},
	}
}

// Rebuild fetches the directory and every card, constructs agents by kind,
// and swaps the cache in one step. On error the previous cache is kept.
func (n *Network) Rebuild(ctx context.Context, directoryURL string) error {
	dir, err := n.fetcher.FetchDirectory(ctx, directoryURL)
	if err != nil {
		return err
	}

	agents := make(map[string]agent.Agent, len(dir.Agents))
	cards := make([]domain.AgentCard, 0, len(dir.Agents))

	for _, entry := range dir.Agents {
		if entry.Name == "" || entry.URL == "" {
			continue
		}
		card, err := n.fetcher.FetchCard(ctx, entry.URL)
		if err != nil {
			return fmt.Errorf("agent %q: %w", entry.Name, err)
		}

		model := card.Parameters.Model
		if model == "" {
			model = entry.Model
		}

		var a agent.Agent
		switch card.Kind {
		case domain.AgentKindWorkflow:
			wa, err := agent.NewWorkflowAgent(*card, model, n.workflowClient, n.logger)
			if err != nil {
				return fmt.Errorf("agent %q: %w", entry.Name, err)
			}
			a = wa
		default:
			a = agent.NewChatAgent(*card, model, n.chatTimeout, n.logger)
		}

		agents[entry.Name] = a
		cards = append(cards, *card)
		n.logger.Info("registered agent", "name", entry.Name, "kind", card.Kind)
	}

	n.mu.Lock()
	n.agents = agents
	n.cards = cards
	n.mu.Unlock()
	return nil
}

// Invalidate clears the cache so the next use rebuilds it.
func (n *Network) Invalidate() {
	n.mu.Lock()
	n.agents = map[string]agent.Agent{}
	n.cards = nil
	n.mu.Unlock()
}

// Ready reports whether the cache holds at least one agent.
func (n *Network) Ready() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.agents) > 0
}

// Get returns the named agent.
func (n *Network) Get(name string) (agent.Agent, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	a, ok := n.agents[name]
	return a, ok
}

// Cards returns the cached cards in directory order.
func (n *Network) Cards() []domain.AgentCard {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]domain.AgentCard, len(n.cards))
	copy(out, n.cards)
	return out
}

// Count returns the number of cached agents.
func (n *Network) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.agents)
}
