package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/iliyamo/movie-catalog-browser/internal/config"
)

// ErrMongoNotConfigured is returned when no MongoDB URI can be built.
var ErrMongoNotConfigured = errors.New("mongo uri not configured")

// ConnectMongo connects to MongoDB and pings the primary. On any failure
// the client is disconnected and an error is returned; callers then run
// with search logging disabled.
func ConnectMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, error) {
	uri := c.URI()
	if uri == "" {
		return nil, ErrMongoNotConfigured
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(c.Timeout).
		SetConnectTimeout(c.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// SearchLogCollection returns the configured log collection.
func SearchLogCollection(client *mongo.Client, c config.MongoConfig) *mongo.Collection {
	return client.Database(c.Database).Collection(c.Collection)
}
