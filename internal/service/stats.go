package service

import (
	"context"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// StatsStore reads and clears the analytics log.
type StatsStore interface {
	TopQueries(ctx context.Context, limit int) ([]model.QueryStat, error)
	RecentQueries(ctx context.Context, limit int) ([]model.QueryStat, error)
	Clear(ctx context.Context) (int64, error)
}

// Stats serves the analytics summaries. With a nil store every summary is
// empty and Clear removes nothing.
type Stats struct {
	store StatsStore
}

// NewStats wraps store, which may be nil.
func NewStats(store StatsStore) *Stats {
	return &Stats{store: store}
}

// Enabled reports whether a log store is attached.
func (s *Stats) Enabled() bool { return s.store != nil }

// Top returns the most frequent distinct queries.
func (s *Stats) Top(ctx context.Context, limit int) ([]model.QueryStat, error) {
	if s.store == nil || limit <= 0 {
		return []model.QueryStat{}, nil
	}
	return s.store.TopQueries(ctx, limit)
}

// Recent returns the most recently run distinct queries.
func (s *Stats) Recent(ctx context.Context, limit int) ([]model.QueryStat, error) {
	if s.store == nil || limit <= 0 {
		return []model.QueryStat{}, nil
	}
	return s.store.RecentQueries(ctx, limit)
}

// Clear removes every log entry. Callers confirm with the user first.
func (s *Stats) Clear(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.Clear(ctx)
}
