// Package db provides database connection handling for the engine.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Registers the postgres driver.
	_ "github.com/lib/pq"
)

// ErrMissingURL is returned when Open is called without a database URL.
var ErrMissingURL = errors.New("database URL is empty")

// Pool sizing for the engine's read-heavy workload.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Open creates a postgres connection pool. It does not verify the
// connection; callers ping through the health checker at startup.
func Open(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, ErrMissingURL
	}

	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	return conn, nil
}
