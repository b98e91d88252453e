package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS mandants (
    uuid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    website TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
    uuid TEXT PRIMARY KEY,
    mandant_uuid TEXT NOT NULL REFERENCES mandants(uuid),
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    salt TEXT NOT NULL,
    lastname TEXT NOT NULL DEFAULT '',
    firstname TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
    session_key TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    user_uuid TEXT NOT NULL,
    mandant_uuid TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_username_idx ON sessions (username);

CREATE TABLE IF NOT EXISTS nestboxes (
    uuid TEXT PRIMARY KEY,
    mandant_uuid TEXT NOT NULL REFERENCES mandants(uuid),
    public BOOLEAN NOT NULL DEFAULT TRUE,
    images TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS birds (
    uuid TEXT PRIMARY KEY,
    mandant_uuid TEXT NOT NULL REFERENCES mandants(uuid),
    bird TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS birds_mandant_idx ON birds (mandant_uuid, bird);

CREATE TABLE IF NOT EXISTS breeds (
    uuid TEXT PRIMARY KEY,
    mandant_uuid TEXT NOT NULL REFERENCES mandants(uuid),
    nestbox_uuid TEXT NOT NULL REFERENCES nestboxes(uuid),
    user_uuid TEXT NOT NULL,
    bird_uuid TEXT NOT NULL REFERENCES birds(uuid),
    discovery_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS breeds_nestbox_idx ON breeds (nestbox_uuid, discovery_date DESC);

CREATE TABLE IF NOT EXISTS geolocations (
    uuid TEXT PRIMARY KEY,
    nestbox_uuid TEXT NOT NULL REFERENCES nestboxes(uuid),
    from_date TIMESTAMPTZ NOT NULL,
    until_date TIMESTAMPTZ NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    latitude DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS geolocations_nestbox_idx ON geolocations (nestbox_uuid, until_date);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
