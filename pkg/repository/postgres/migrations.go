package postgres

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon        TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		count       INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS category_fields (
		category_id TEXT NOT NULL,
		id          TEXT NOT NULL,
		label       TEXT NOT NULL,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		required    BOOLEAN NOT NULL DEFAULT FALSE,
		placeholder TEXT NOT NULL DEFAULT '',
		options     TEXT[],
		min         DOUBLE PRECISION,
		max         DOUBLE PRECISION,
		step        DOUBLE PRECISION,
		sort_order  INTEGER NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (category_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS category_fields_order_idx ON category_fields (category_id, sort_order)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS category_fields_name_idx ON category_fields (category_id, name)`,
	`CREATE TABLE IF NOT EXISTS opportunities (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL,
		company_id  TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		deadline    TEXT NOT NULL DEFAULT '',
		apply_url   TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'open',
		config      JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS opportunities_category_idx ON opportunities (category_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS opportunities_company_idx ON opportunities (company_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id             TEXT PRIMARY KEY,
		opportunity_id TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		cover_letter   TEXT NOT NULL DEFAULT '',
		resume_url     TEXT NOT NULL DEFAULT '',
		answers        JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (opportunity_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS applications_user_idx ON applications (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS category_responses (
		category_id TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		config      JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (category_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id                TEXT PRIMARY KEY,
		email             TEXT NOT NULL DEFAULT '',
		full_name         TEXT NOT NULL DEFAULT '',
		role              TEXT NOT NULL DEFAULT 'user',
		company_name      TEXT NOT NULL DEFAULT '',
		admin_secret_hash TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
}

// SchemaStatements returns the number of statements Migrate executes
func SchemaStatements() int {
	return len(schema)
}

// Migrate applies the schema
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema statement", goerr.V("index", i))
		}
	}
	return nil
}
