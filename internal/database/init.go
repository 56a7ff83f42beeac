package database

import (
	"context"
	"fmt"

	"github.com/yourusername/pairwatch/internal/config"
)

// schemaStatements create the pairwatch tables when they do not exist yet.
// Undefined analytics values are stored as NULL.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ticks (
		time        TIMESTAMPTZ      NOT NULL,
		symbol      TEXT             NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		qty         DOUBLE PRECISION NOT NULL,
		trade_id    BIGINT           NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ticks_symbol_time ON ticks (symbol, time)`,
	`CREATE TABLE IF NOT EXISTS bars (
		bucket_start TIMESTAMPTZ      NOT NULL,
		symbol       TEXT             NOT NULL,
		interval     TEXT             NOT NULL,
		open         DOUBLE PRECISION NOT NULL,
		high         DOUBLE PRECISION NOT NULL,
		low          DOUBLE PRECISION NOT NULL,
		close        DOUBLE PRECISION NOT NULL,
		volume       DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (symbol, interval, bucket_start)
	)`,
	`CREATE TABLE IF NOT EXISTS pair_snapshots (
		id            UUID             PRIMARY KEY,
		time          TIMESTAMPTZ      NOT NULL,
		pair          TEXT             NOT NULL,
		hedge_ratio   DOUBLE PRECISION,
		spread        DOUBLE PRECISION,
		zscore        DOUBLE PRECISION,
		correlation   DOUBLE PRECISION,
		adf_statistic DOUBLE PRECISION,
		adf_pvalue    DOUBLE PRECISION,
		r_squared     DOUBLE PRECISION,
		observations  INTEGER          NOT NULL,
		window        INTEGER          NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pair_snapshots_pair_time ON pair_snapshots (pair, time DESC)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id        UUID             PRIMARY KEY,
		time      TIMESTAMPTZ      NOT NULL,
		pair      TEXT             NOT NULL,
		rule      TEXT             NOT NULL,
		observed  DOUBLE PRECISION NOT NULL,
		threshold DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_pair_time ON alerts (pair, time DESC)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the table definitions idempotently
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
