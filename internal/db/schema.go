package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            SERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'operator',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS preferences (
	user_id       INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	theme         TEXT NOT NULL DEFAULT 'light',
	nav_collapsed BOOLEAN NOT NULL DEFAULT false,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS submissions (
	id               SERIAL PRIMARY KEY,
	user_id          INTEGER NOT NULL,
	status           TEXT NOT NULL,
	customer_id      BIGINT NOT NULL DEFAULT 0,
	customer_created BOOLEAN NOT NULL DEFAULT false,
	order_id         BIGINT NOT NULL DEFAULT 0,
	item_count       INTEGER NOT NULL DEFAULT 0,
	subtotal         BIGINT NOT NULL DEFAULT 0,
	deposit          BIGINT NOT NULL DEFAULT 0,
	remaining        BIGINT NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS submissions_user_created_idx ON submissions (user_id, created_at DESC);
`

// Migrate creates the panel tables when they do not exist yet.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
