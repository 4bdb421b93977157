package database

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the PostgreSQL pool.
type PoolOptions struct {
	EnableCheck      bool          // Ping the database before returning the pool
	StatementTimeout time.Duration // statement_timeout for every session, 0 keeps the server default
	LockTimeout      time.Duration // lock_timeout for every session, 0 keeps the server default
}

// NewPgxPool creates a new PostgreSQL connection pool.
func NewPgxPool(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	// pgxpool.ParseConfig automatically reads environment variables like PGHOST, PGUSER, etc.
	// but we can also force the use of the URL.
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	if opts.StatementTimeout > 0 {
		config.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10)
	}
	if opts.LockTimeout > 0 {
		config.ConnConfig.RuntimeParams["lock_timeout"] = strconv.FormatInt(opts.LockTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if opts.EnableCheck {
		if err := pool.Ping(ctx); err != nil {
			pool.Close() // Close the pool if ping fails
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		slog.Info("Successfully connected to PostgreSQL database.")
	}
	return pool, nil
}

// ClosePgxPool closes the PostgreSQL connection pool.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		slog.Info("PostgreSQL connection pool closed.")
	}
}
