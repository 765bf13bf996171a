package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	email         TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bills (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email         TEXT NOT NULL,
	type          TEXT NOT NULL DEFAULT '',
	name          TEXT NOT NULL DEFAULT '',
	date          DATE,
	amount        NUMERIC(12, 2) NOT NULL DEFAULT 0,
	vat           NUMERIC(12, 2) NOT NULL DEFAULT 0,
	pct           INTEGER NOT NULL DEFAULT 20,
	commentary    TEXT NOT NULL DEFAULT '',
	comment_admin TEXT NOT NULL DEFAULT '',
	file_url      TEXT NOT NULL DEFAULT '',
	file_name     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ,
	deleted_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_bills_email ON bills(email) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status) WHERE deleted_at IS NULL;
`

// Migrate creates the tables the API needs when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
