// Package queue defines message payloads exchanged over the message broker
// and the consumer that reads them back.
package queue

import (
	"encoding/json"
	"fmt"
)

// SearchLoggedQueue is the default queue search events are published to.
const SearchLoggedQueue = "search.logged"

// SearchLoggedEvent is published after a search has been written to the
// analytics log. It carries the same cleaned parameters as the log entry
// so consumers never need to query the log store.
type SearchLoggedEvent struct {
	SearchType   string         `json:"search_type"`
	Params       map[string]any `json:"params"`
	ResultsCount int            `json:"results_count"`
	LoggedAt     string         `json:"logged_at"` // RFC 3339, UTC
}

// DecodeSearchLogged parses a message body.
func DecodeSearchLogged(body []byte) (SearchLoggedEvent, error) {
	var ev SearchLoggedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SearchType == "" {
		return ev, fmt.Errorf("missing search_type")
	}
	return ev, nil
}
