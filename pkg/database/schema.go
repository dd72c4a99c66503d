package database

import (
	"context"
	"fmt"
)

// SignalsTable is the table written by the signal emitter
const SignalsTable = "sniper_signals"

// schemaStatements create the signal store. Re-running them is a no-op.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS sniper_signals (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		ticker           TEXT NOT NULL,
		entry_price      DOUBLE PRECISION NOT NULL,
		confidence_score DOUBLE PRECISION NOT NULL,
		reasons          TEXT,
		status           TEXT NOT NULL CHECK (status IN ('OPEN', 'CLOSED')),
		created_at       TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sniper_signals_status_score
		ON sniper_signals (status, confidence_score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sniper_signals_created_at
		ON sniper_signals (created_at DESC)`,
}

// SchemaSQL returns the DDL as one script (for manual runs against a hosted store)
func SchemaSQL() string {
	out := ""
	for _, stmt := range schemaStatements {
		out += stmt + ";\n\n"
	}
	return out
}

// Migrate creates the signal store schema if it does not exist
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
