package session

import (
	"context"
	"errors"
	"time"
)

// Session tracks one verification attempt for one email. The ID doubles as
// the shareable capability token embedded in the verification link, so it
// must be unguessable.
type Session struct {
	ID        string    `json:"sessionId"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Status is derived, never stored. Verified wins over expiry: a session
// completed inside its window stays readable as verified.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusExpired  Status = "expired"
)

func (s Session) StatusAt(now time.Time, ttl time.Duration) Status {
	if s.Verified {
		return StatusVerified
	}
	if ttl > 0 && now.After(s.CreatedAt.Add(ttl)) {
		return StatusExpired
	}
	return StatusPending
}

var (
	// ErrNotFound means the id was never issued or the backend already
	// dropped it. Callers must treat both the same way.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired means the session outlived its TTL while still pending.
	ErrExpired = errors.New("session: expired")
)

// Store is the rendezvous registry shared by the initiating and completing
// clients. Implementations generate the id themselves and own all Session
// values; callers only ever see copies.
type Store interface {
	// Create inserts a new pending session for email and returns it.
	Create(ctx context.Context, email string) (*Session, error)

	// Get returns a snapshot of the session, ErrNotFound for unknown ids,
	// or ErrExpired for pending sessions past their TTL.
	Get(ctx context.Context, id string) (*Session, error)

	// MarkVerified flips the session to verified. Idempotent: verifying an
	// already-verified session is a no-op. Never un-verifies.
	MarkVerified(ctx context.Context, id string) error
}
