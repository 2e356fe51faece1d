package audit

import (
	"context"

	"verify-service/internal/db"
)

const (
	EventCreated  = "created"
	EventVerified = "verified"
)

// Recorder appends verification events to an audit trail. Recording is
// best-effort: callers log failures but never fail the request over them.
type Recorder interface {
	Record(ctx context.Context, sessionID, email, event string) error
}

// DBRecorder writes events to Postgres.
type DBRecorder struct {
	db *db.DB
}

func NewDBRecorder(db *db.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

func (r *DBRecorder) Record(
	ctx context.Context,
	sessionID string,
	email string,
	event string,
) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_events (session_id, email, event)
		VALUES ($1, $2, $3)
	`,
		sessionID,
		email,
		event,
	)
	return err
}

// NopRecorder is used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string) error {
	return nil
}
