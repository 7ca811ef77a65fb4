package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// agentSummary is one entry in the /api/agents listing.
type agentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Version     string `json:"version"`
}

// ListAgents returns the cached agents, lazily building the network on first
// use.
// GET /api/agents
func (h *Handler) ListAgents(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.network.Ready() {
		if err := h.network.Rebuild(ctx, h.directoryURL(c)); err != nil {
			h.logger.Error("failed to build agent network", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "failed to load agents: " + err.Error(),
			})
		}
	}

	cards := h.network.Cards()
	agents := make([]agentSummary, 0, len(cards))
	for _, card := range cards {
		agents = append(agents, agentSummary{
			Name:        card.Name,
			Description: card.Description,
			Category:    card.Category,
			Version:     card.Version,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"agents":  agents,
		"count":   len(agents),
	})
}

// ReloadRequest is the request body for /api/reload.
type ReloadRequest struct {
	AgentJSONURL string `json:"agent_json_url"`
}

// ReloadAgents rebuilds the agent network from the directory.
// POST /api/reload
func (h *Handler) ReloadAgents(c echo.Context) error {
	ctx := c.Request().Context()

	var req ReloadRequest
	if err := c.Bind(&req); err != nil && c.Request().ContentLength > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
	}
	directoryURL := req.AgentJSONURL
	if directoryURL == "" {
		directoryURL = h.config.AgentJSONURL
	}

	if err := h.network.Rebuild(ctx, directoryURL); err != nil {
		h.logger.Error("failed to reload agent network", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "failed to reload agents: " + err.Error(),
		})
	}

	h.logger.Info("agent network reloaded", "count", h.network.Count())
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"message":      "agent network reloaded",
		"agents_count": h.network.Count(),
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
