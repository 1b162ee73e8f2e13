// Package handler exposes the read-only stats API: search analytics and
// the favorites list as JSON.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// MaxStatsLimit caps the limit query parameter.
const MaxStatsLimit = 50

// StatsSource serves the analytics summaries.
type StatsSource interface {
	Enabled() bool
	Top(ctx context.Context, limit int) ([]model.QueryStat, error)
	Recent(ctx context.Context, limit int) ([]model.QueryStat, error)
}

// FavoriteLister reads the favorites list.
type FavoriteLister interface {
	List() []model.Favorite
}

// StatsHandler groups the stats endpoints.
type StatsHandler struct {
	Stats        StatsSource
	Favorites    FavoriteLister
	DefaultLimit int
}

// StatItem is one summary row in API responses.
type StatItem struct {
	SearchType   model.SearchType `json:"search_type"`
	Params       map[string]any   `json:"params"`
	Count        int              `json:"count,omitempty"`
	Last         time.Time        `json:"last"`
	ResultsCount int              `json:"results_count"`
}

// Top handles GET /v1/stats/top?limit=N.
func (h *StatsHandler) Top(c echo.Context) error {
	return h.serve(c, h.Stats.Top)
}

// Recent handles GET /v1/stats/recent?limit=N.
func (h *StatsHandler) Recent(c echo.Context) error {
	return h.serve(c, h.Stats.Recent)
}

func (h *StatsHandler) serve(c echo.Context, read func(context.Context, int) ([]model.QueryStat, error)) error {
	if !h.Stats.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "search log unavailable"})
	}
	limit, err := h.limit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
	}
	stats, err := read(c.Request().Context(), limit)
	if err != nil {
		c.Logger().Errorf("stats query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]StatItem, 0, len(stats))
	for _, s := range stats {
		items = append(items, StatItem{
			SearchType:   s.SearchType,
			Params:       s.ParamsMap(),
			Count:        s.Count,
			Last:         s.Last,
			ResultsCount: s.ResultsCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// limit reads ?limit, clamped to 1..MaxStatsLimit.
func (h *StatsHandler) limit(c echo.Context) (int, error) {
	n := h.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		n = v
	}
	if n < 1 {
		n = 1
	}
	if n > MaxStatsLimit {
		n = MaxStatsLimit
	}
	return n, nil
}

// ListFavorites handles GET /v1/favorites.
func (h *StatsHandler) ListFavorites(c echo.Context) error {
	favs := h.Favorites.List()
	if favs == nil {
		favs = []model.Favorite{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": favs, "count": len(favs)})
}
