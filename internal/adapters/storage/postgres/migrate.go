package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS medications (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL CHECK (name IN ('A', 'B')),
	time        TIME NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity >= 0),
	stock_count INTEGER NOT NULL DEFAULT 0 CHECK (stock_count >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attendance (
	recorded_date DATE PRIMARY KEY,
	pill_a        BOOLEAN NOT NULL DEFAULT false,
	pill_b        BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS bpm (
	id          SERIAL PRIMARY KEY,
	bpm         INTEGER NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_bpm_recorded_at ON bpm (recorded_at);
`

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
