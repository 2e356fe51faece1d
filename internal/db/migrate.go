package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

const auditMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS verification_events (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    session_id text NOT NULL,
    email text NOT NULL,
    event text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS verification_events_session_id_idx
ON verification_events (session_id);
`

func RunAuditMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, auditMigration)
	return err
}
