// Package api provides the HTTP handlers for the agent router.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/agentrouter/config"
	"github.com/xiaot623/agentrouter/directory"
	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/policy"
)

// QueryRouter selects the agent for a query.
type QueryRouter interface {
	Route(ctx context.Context, query string, cards []domain.AgentCard) (string, float64, error)
}

// Handler handles HTTP requests.
type Handler struct {
	network *directory.Network
	fetcher *directory.Fetcher
	router  QueryRouter
	policy  *policy.Engine
	config  *config.Config
	logger  *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(network *directory.Network, fetcher *directory.Fetcher, router QueryRouter, policyEngine *policy.Engine, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		network: network,
		fetcher: fetcher,
		router:  router,
		policy:  policyEngine,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	e.GET("/api/agents", h.ListAgents)
	e.POST("/api/query", h.HandleQuery)
	e.POST("/api/reload", h.ReloadAgents)
	e.GET("/api/description", h.Description)
	e.GET("/api/catalog", h.Catalog)
}

// Health returns health status.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Description returns the service self-description, lazily building the
// directory cache so the agent count is populated.
// GET /api/description
func (h *Handler) Description(c echo.Context) error {
	ctx := c.Request().Context()
	url := h.directoryURL(c)

	if !h.network.Ready() {
		if err := h.network.Rebuild(ctx, url); err != nil {
			h.logger.Warn("lazy directory build failed", "error", err)
		}
	}

	desc := fmt.Sprintf(
		"Routes user queries to the most suitable downstream agent (workflow and plain remote agents), "+
			"invokes the agent's API and returns the result. Required parameter: query. "+
			"Optional: agent_json_url, force_reload. (%d agents cached)",
		h.network.Count(),
	)
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"description": desc,
	})
}

// directoryURL resolves the agent.json URL for a request.
func (h *Handler) directoryURL(c echo.Context) string {
	if url := c.QueryParam("agent_json_url"); url != "" {
		return url
	}
	return h.config.AgentJSONURL
}
