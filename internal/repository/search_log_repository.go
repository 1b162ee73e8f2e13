package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// SearchLogRepo reads and writes the search analytics collection. Queries
// are grouped by the pair (search_type, params), which is why params are
// always stored with their keys sorted.
type SearchLogRepo struct {
	coll *mongo.Collection
}

// NewSearchLogRepo constructs a SearchLogRepo over coll.
func NewSearchLogRepo(coll *mongo.Collection) *SearchLogRepo {
	return &SearchLogRepo{coll: coll}
}

// Insert appends one log document.
func (r *SearchLogRepo) Insert(ctx context.Context, e model.SearchLogEntry) error {
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

// statDoc is the shape produced by both aggregation pipelines.
type statDoc struct {
	ID struct {
		Type   model.SearchType `bson:"type"`
		Params bson.D           `bson:"params"`
	} `bson:"_id"`
	Count        int       `bson:"count"`
	Last         time.Time `bson:"last"`
	Timestamp    time.Time `bson:"timestamp"`
	ResultsCount int       `bson:"results_count"`
}

var groupKey = bson.D{
	{Key: "type", Value: "$search_type"},
	{Key: "params", Value: "$params"},
}

// TopQueries returns the most frequent distinct queries, most frequent
// first and ties broken by the most recent use.
func (r *SearchLogRepo) TopQueries(ctx context.Context, limit int) ([]model.QueryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupKey},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "last", Value: bson.D{{Key: "$max", Value: "$timestamp"}}},
			{Key: "results_count", Value: bson.D{{Key: "$last", Value: "$results_count"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "last", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
	docs, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	out := make([]model.QueryStat, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.QueryStat{
			SearchType:   d.ID.Type,
			Params:       d.ID.Params,
			Count:        d.Count,
			Last:         d.Last,
			ResultsCount: d.ResultsCount,
		})
	}
	return out, nil
}

// RecentQueries returns the most recently run distinct queries, newest first.
func (r *SearchLogRepo) RecentQueries(ctx context.Context, limit int) ([]model.QueryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupKey},
			{Key: "timestamp", Value: bson.D{{Key: "$first", Value: "$timestamp"}}},
			{Key: "results_count", Value: bson.D{{Key: "$first", Value: "$results_count"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
	docs, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	out := make([]model.QueryStat, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.QueryStat{
			SearchType:   d.ID.Type,
			Params:       d.ID.Params,
			Last:         d.Timestamp,
			ResultsCount: d.ResultsCount,
		})
	}
	return out, nil
}

// Clear deletes every log document and returns how many were removed.
func (r *SearchLogRepo) Clear(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("clear search logs: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *SearchLogRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]statDoc, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []statDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
