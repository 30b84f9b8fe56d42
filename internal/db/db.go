package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

// LocalConnect opens the SQLite database at dbPath. ":memory:" databases are
// limited to one connection, since each connection would get its own copy.
func LocalConnect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}
	if dbPath == ":memory:" {
		pool.SetMaxOpenConns(1)
	}
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database at %s: %w", dbPath, err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS match_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id TEXT NOT NULL,
	room_id TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT '',
	result TEXT NOT NULL,
	board TEXT NOT NULL DEFAULT '',
	played_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_match_results_player ON match_results (player_id, id);

CREATE TABLE IF NOT EXISTS tallies (
	player_id TEXT PRIMARY KEY,
	cross_wins INTEGER NOT NULL DEFAULT 0,
	circle_wins INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0
);`

// InitializeDB enables foreign keys and creates the tables if needed.
func InitializeDB(ctx context.Context, DB *sqlx.DB) error {
	if _, err := DB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	slog.InfoContext(ctx, "sqlite schema verified")

	return nil
}
