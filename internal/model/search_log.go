package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// SearchLogEntry is one document in the search analytics collection. It is
// written once per logical search, never per page.
type SearchLogEntry struct {
	Timestamp    time.Time  `bson:"timestamp" json:"timestamp"`
	SearchType   SearchType `bson:"search_type" json:"search_type"`
	Params       bson.D     `bson:"params" json:"params"`
	ResultsCount int        `bson:"results_count" json:"results_count"`
}

// QueryStat is one row of the "most frequent" or "most recent" summaries.
// Count is only meaningful for the frequency summary.
type QueryStat struct {
	SearchType   SearchType `json:"search_type"`
	Params       bson.D     `json:"-"`
	Count        int        `json:"count,omitempty"`
	Last         time.Time  `json:"last"`
	ResultsCount int        `json:"results_count"`
}

// ParamsMap returns Params as a map, which is how the stats API renders them.
func (q QueryStat) ParamsMap() map[string]any {
	out := make(map[string]any, len(q.Params))
	for _, e := range q.Params {
		out[e.Key] = e.Value
	}
	return out
}
