// Package database opens the process-wide connections: the MySQL catalog
// pool and the MongoDB client behind the search log.
package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-catalog-browser/internal/config"
)

// OpenMySQL creates the catalog pool. It does not contact the server; use
// PingMySQL to verify the connection.
func OpenMySQL(c config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// PingMySQL verifies the pool with a 5 second timeout.
func PingMySQL(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
