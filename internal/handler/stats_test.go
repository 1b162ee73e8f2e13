package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/iliyamo/movie-catalog-browser/internal/handler"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

type fakeStats struct {
	enabled bool
	stats   []model.QueryStat
	err     error
	limit   int
}

func (f *fakeStats) Enabled() bool { return f.enabled }

func (f *fakeStats) Top(_ context.Context, limit int) ([]model.QueryStat, error) {
	f.limit = limit
	return f.stats, f.err
}

func (f *fakeStats) Recent(_ context.Context, limit int) ([]model.QueryStat, error) {
	f.limit = limit
	return f.stats, f.err
}

type fakeFavorites []model.Favorite

func (f fakeFavorites) List() []model.Favorite { return f }

func get(t *testing.T, h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestStatsHandler_Top(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := &fakeStats{enabled: true, stats: []model.QueryStat{{
		SearchType:   model.SearchKeyword,
		Params:       bson.D{{Key: "keyword", Value: "dog"}},
		Count:        4,
		Last:         last,
		ResultsCount: 2,
	}}}
	h := &handler.StatsHandler{Stats: stats, DefaultLimit: 5}

	rec := get(t, h.Top, "/v1/stats/top")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, stats.limit)

	var body struct {
		Items []handler.StatItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, model.SearchKeyword, body.Items[0].SearchType)
	assert.Equal(t, map[string]any{"keyword": "dog"}, body.Items[0].Params)
	assert.Equal(t, 4, body.Items[0].Count)
	assert.True(t, last.Equal(body.Items[0].Last))
}

func TestStatsHandler_Limit(t *testing.T) {
	tests := []struct {
		query string
		code  int
		want  int
	}{
		{"?limit=3", http.StatusOK, 3},
		{"?limit=0", http.StatusOK, 1},
		{"?limit=500", http.StatusOK, handler.MaxStatsLimit},
		{"?limit=many", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stats := &fakeStats{enabled: true}
			h := &handler.StatsHandler{Stats: stats, DefaultLimit: 5}

			rec := get(t, h.Recent, "/v1/stats/recent"+tt.query)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.want, stats.limit)
		})
	}
}

func TestStatsHandler_Unavailable(t *testing.T) {
	h := &handler.StatsHandler{Stats: &fakeStats{}}
	rec := get(t, h.Top, "/v1/stats/top")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatsHandler_StoreError(t *testing.T) {
	h := &handler.StatsHandler{Stats: &fakeStats{enabled: true, err: errors.New("boom")}, DefaultLimit: 5}
	rec := get(t, h.Top, "/v1/stats/top")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"database error"}`, rec.Body.String())
}

func TestStatsHandler_ListFavorites(t *testing.T) {
	h := &handler.StatsHandler{Favorites: fakeFavorites{{FilmID: 7, Title: "Dog Day", Added: "2026-03-01 12:00:00"}}}
	rec := get(t, h.ListFavorites, "/v1/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"count":1,"items":[{"film_id":7,"title":"Dog Day","added":"2026-03-01 12:00:00"}]}`,
		rec.Body.String())

	h = &handler.StatsHandler{Favorites: fakeFavorites(nil)}
	rec = get(t, h.ListFavorites, "/v1/favorites")
	assert.JSONEq(t, `{"count":0,"items":[]}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := get(t, handler.Health, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
