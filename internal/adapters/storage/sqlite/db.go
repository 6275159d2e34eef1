package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS medications (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL CHECK (name IN ('A', 'B')),
	time        TEXT NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity >= 0),
	stock_count INTEGER NOT NULL DEFAULT 0 CHECK (stock_count >= 0),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS attendance (
	recorded_date DATE PRIMARY KEY,
	pill_a        BOOLEAN NOT NULL DEFAULT 0,
	pill_b        BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bpm (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	bpm         INTEGER NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bpm_recorded_at ON bpm (recorded_at);
`

// Open abre (o crea) la base SQLite en path y aplica el schema.
// Pensado para desarrollo local y para correr el dispensador sin Postgres.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Un solo escritor: las transacciones de /store no compiten entre sí.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
