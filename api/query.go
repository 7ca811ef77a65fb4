package api

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/agentrouter/domain"
	"github.com/xiaot623/agentrouter/policy"
	"github.com/xiaot623/agentrouter/transcript"
)

// QueryRequest is the request body for /api/query.
type QueryRequest struct {
	Query        string `json:"query"`
	AgentJSONURL string `json:"agent_json_url"`
	ForceReload  bool   `json:"force_reload"`
}

// HandleQuery routes a query to the best agent and invokes it.
// POST /api/query
func (h *Handler) HandleQuery(c echo.Context) error {
	ctx := c.Request().Context()
	requestID := "qry_" + uuid.New().String()[:8]
	logger := h.logger.With("request_id", requestID)

	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "query must not be empty",
		})
	}

	directoryURL := req.AgentJSONURL
	if directoryURL == "" {
		directoryURL = h.config.AgentJSONURL
	}

	if req.ForceReload || !h.network.Ready() {
		if err := h.network.Rebuild(ctx, directoryURL); err != nil {
			logger.Error("failed to build agent network", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "failed to load agents: " + err.Error(),
			})
		}
	}

	name, confidence, err := h.router.Route(ctx, req.Query, h.network.Cards())
	if err != nil {
		logger.Warn("routing failed", "error", err)
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"error":   "no suitable agent found for this query: " + err.Error(),
		})
	}
	confidence = math.Round(confidence*100) / 100
	logger.Info("query routed", "agent", name, "confidence", confidence)

	a, ok := h.network.Get(name)
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"error":   "routed agent does not exist: " + name,
		})
	}

	decision, err := h.policy.Evaluate(ctx, policy.RoutingInput{
		Agent:      name,
		Category:   a.Card().Category,
		Confidence: confidence,
	})
	if err != nil {
		logger.Warn("policy evaluation failed, allowing", "error", err)
		decision = policy.DecisionAllow
	}
	if decision == policy.DecisionBlock {
		logger.Info("routing blocked by policy", "agent", name, "confidence", confidence)
		return c.JSON(http.StatusOK, map[string]any{
			"success":      false,
			"routed_agent": name,
			"confidence":   confidence,
			"error":        "routing decision was blocked by policy",
		})
	}

	answer := a.Ask(ctx, req.Query)
	timestamp := time.Now().Format(time.RFC3339)

	if a.Kind() == domain.AgentKindWorkflow {
		return c.JSON(http.StatusOK, map[string]any{
			"success":           true,
			"routed_agent":      name,
			"confidence":        confidence,
			"raw_response":      answer,
			"friendly_response": transcript.Normalize(answer),
			"timestamp":         timestamp,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"routed_agent": name,
		"confidence":   confidence,
		"response":     answer,
		"timestamp":    timestamp,
	})
}
