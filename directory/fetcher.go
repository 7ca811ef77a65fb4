// Package directory fetches the remote agent directory and maintains the
// constructed agent network as an explicit, lock-guarded cache.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xiaot623/agentrouter/domain"
)

// DefaultFetchTimeout bounds one directory or card fetch.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves agent.json documents and per-agent cards.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a directory fetcher.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchDirectory retrieves the agent.json directory document.
func (f *Fetcher) FetchDirectory(ctx context.Context, url string) (*domain.Directory, error) {
	var dir domain.Directory
	if err := f.getJSON(ctx, url, &dir); err != nil {
		return nil, fmt.Errorf("failed to fetch agent directory: %w", err)
	}
	f.logger.Info("fetched agent directory", "url", url, "agents", len(dir.Agents))
	return &dir, nil
}

// FetchCard retrieves one agent's card document and resolves its kind from
// the category field.
func (f *Fetcher) FetchCard(ctx context.Context, url string) (*domain.AgentCard, error) {
	var card domain.AgentCard
	if err := f.getJSON(ctx, url, &card); err != nil {
		return nil, fmt.Errorf("failed to fetch agent card: %w", err)
	}
	card.Kind = domain.KindFromCategory(card.Category)
	if card.Version == "" {
		card.Version = "1.0.0"
	}
	return &card, nil
}

// CatalogItem is one enriched directory entry for the catalog endpoint. The
// directory's own fields always survive; card fields are best effort.
type CatalogItem struct {
	Name                string                 `json:"name"`
	URL                 string                 `json:"url"`
	Model               string                 `json:"model"`
	Description         string                 `json:"description,omitempty"`
	Category            string                 `json:"category,omitempty"`
	Version             string                 `json:"version,omitempty"`
	Skills              []domain.AgentSkill    `json:"skills,omitempty"`
	API                 domain.AgentAPI        `json:"api,omitempty"`
	Parameters          domain.AgentParameters `json:"parameters,omitempty"`
	ModelFromParameters string                 `json:"model_from_parameters,omitempty"`
}

// Enrich augments a directory entry with its card document. Fetch failures
// leave the minimal entry intact.
func (f *Fetcher) Enrich(ctx context.Context, entry domain.DirectoryEntry) CatalogItem {
	item := CatalogItem{
		Name:  entry.Name,
		URL:   entry.URL,
		Model: entry.Model,
	}
	if item.URL == "" || item.Name == "" {
		return item
	}

	card, err := f.FetchCard(ctx, entry.URL)
	if err != nil {
		f.logger.Warn("failed to enrich catalog item", "agent", entry.Name, "error", err)
		return item
	}

	item.Description = card.Description
	item.Category = card.Category
	item.Version = card.Version
	item.Skills = card.Skills
	item.API = card.API
	item.Parameters = card.Parameters
	if card.Parameters.Model != "" && card.Parameters.Model != item.Model {
		item.ModelFromParameters = card.Parameters.Model
	}
	return item
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
