// Package service holds the best-effort analytics side of the application:
// writing one log entry per search, reading the aggregated stats back, and
// mirroring each entry to the message broker.
package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
	q "github.com/iliyamo/movie-catalog-browser/internal/queue"
)

// SearchLogStore persists search log entries.
type SearchLogStore interface {
	Insert(ctx context.Context, e model.SearchLogEntry) error
}

// EventPublisher mirrors logged searches to a broker.
type EventPublisher interface {
	PublishSearchLogged(ctx context.Context, event q.SearchLoggedEvent) error
}

// SearchLogger writes one analytics entry per logical search. It never
// fails the caller: a missing store or any write error is logged at warn
// level and dropped.
type SearchLogger struct {
	store  SearchLogStore
	events EventPublisher
	now    func() time.Time
	log    *slog.Logger
}

// NewSearchLogger builds a logger. store and events may be nil.
func NewSearchLogger(store SearchLogStore, events EventPublisher, log *slog.Logger) *SearchLogger {
	if log == nil {
		log = slog.Default()
	}
	return &SearchLogger{store: store, events: events, now: time.Now, log: log}
}

// LogSearch records a search with its cleaned params and result count.
func (l *SearchLogger) LogSearch(ctx context.Context, searchType model.SearchType, params map[string]any, resultsCount int) {
	entry := model.SearchLogEntry{
		Timestamp:    l.now().UTC().Truncate(time.Second),
		SearchType:   searchType,
		Params:       CleanParams(params),
		ResultsCount: resultsCount,
	}

	if l.store == nil {
		l.log.Warn("search log disabled, entry dropped", "search_type", searchType)
		return
	}
	if err := l.store.Insert(ctx, entry); err != nil {
		l.log.Warn("search log write failed", "search_type", searchType, "err", err)
		return
	}
	l.log.Debug("search logged", "search_type", searchType, "results", resultsCount)

	if l.events == nil {
		return
	}
	ev := q.SearchLoggedEvent{
		SearchType:   string(searchType),
		Params:       paramsMap(entry.Params),
		ResultsCount: resultsCount,
		LoggedAt:     entry.Timestamp.Format(time.RFC3339),
	}
	if err := l.events.PublishSearchLogged(ctx, ev); err != nil {
		l.log.Warn("search event publish failed", "err", err)
	}
}

// CleanParams drops the pagination offset and returns the remaining params
// ordered by key, so equal searches always produce the same document and
// group together in the stats.
func CleanParams(params map[string]any) bson.D {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "offset" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		out = append(out, bson.E{Key: k, Value: params[k]})
	}
	return out
}

func paramsMap(d bson.D) map[string]any {
	out := make(map[string]any, len(d))
	for _, e := range d {
		out[e.Key] = e.Value
	}
	return out
}
