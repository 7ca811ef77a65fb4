package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/agentrouter/directory"
)

// Catalog fetches the directory and returns every entry enriched with its
// card document. On a successful fetch the agent cache is refreshed as a side
// effect; when the directory is unreachable the cached cards serve as a
// fallback.
// GET /api/catalog
func (h *Handler) Catalog(c echo.Context) error {
	ctx := c.Request().Context()
	directoryURL := h.directoryURL(c)

	if c.QueryParam("force_reload") == "true" {
		h.network.Invalidate()
	}

	dir, err := h.fetcher.FetchDirectory(ctx, directoryURL)
	if err != nil {
		h.logger.Warn("catalog fetch failed, serving cached cards", "error", err)
		cards := h.network.Cards()
		if len(cards) == 0 {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"error":   "agent directory unavailable: " + err.Error(),
			})
		}
		items := make([]directory.CatalogItem, 0, len(cards))
		for _, card := range cards {
			items = append(items, directory.CatalogItem{
				Name:        card.Name,
				URL:         card.URL,
				Model:       card.Parameters.Model,
				Description: card.Description,
				Category:    card.Category,
				Version:     card.Version,
				Skills:      card.Skills,
				API:         card.API,
				Parameters:  card.Parameters,
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"cached":    true,
			"agents":    items,
			"count":     len(items),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}

	items := make([]directory.CatalogItem, 0, len(dir.Agents))
	for _, entry := range dir.Agents {
		items = append(items, h.fetcher.Enrich(ctx, entry))
	}

	if err := h.network.Rebuild(ctx, directoryURL); err != nil {
		h.logger.Warn("cache refresh after catalog fetch failed", "error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"cached":    false,
		"agents":    items,
		"count":     len(items),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
