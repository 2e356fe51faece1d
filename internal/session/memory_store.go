package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store. It is the single-instance/test
// backend; sessions do not survive a restart. Expiry is checked at read
// time, and an expired pending session is dropped on first observation.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration

	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, email string) (*Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		Email:     email,
		Verified:  false,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return &s, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	if s.StatusAt(m.now(), m.ttl) == StatusExpired {
		delete(m.sessions, id)
		return nil, ErrExpired
	}

	return &s, nil
}

func (m *MemoryStore) MarkVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}

	if s.StatusAt(m.now(), m.ttl) == StatusExpired {
		delete(m.sessions, id)
		return ErrExpired
	}

	s.Verified = true
	m.sessions[id] = s
	return nil
}
