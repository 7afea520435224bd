package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store manages session lifecycles. Implementations must be safe for
// concurrent use.
type Store interface {
	// GetOrCreate returns the id of the session for the given user, creating
	// a fresh one when sessionID is empty, unknown, expired, or owned by a
	// different user.
	GetOrCreate(ctx context.Context, userID, sessionID string) (string, error)
	// Touch records activity on a session, extending its lifetime.
	Touch(ctx context.Context, sessionID string)
	// Delete removes the user's session. Reports whether it existed and
	// belonged to the user.
	Delete(ctx context.Context, userID, sessionID string) bool
	// Describe returns a snapshot of the user's session, if it is live.
	// Sessions owned by other users are invisible.
	Describe(ctx context.Context, userID, sessionID string) (Info, bool)
}

type record struct {
	info Info
}

type memoryStore struct {
	appName  string
	ttl      time.Duration
	sessions map[string]*record
	mu       sync.Mutex

	now func() time.Time
}

// NewMemoryStore creates a Store backed by an in-memory map. Sessions idle
// for longer than ttl are evicted lazily on the next access; a zero ttl
// disables expiry. Session ids are UUIDv7.
func NewMemoryStore(appName string, ttl time.Duration) Store {
	return &memoryStore{
		appName:  appName,
		ttl:      ttl,
		sessions: make(map[string]*record),
		now:      time.Now,
	}
}

func (s *memoryStore) GetOrCreate(ctx context.Context, userID, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()

	if sessionID != "" {
		if rec, ok := s.sessions[sessionID]; ok && rec.info.UserID == userID {
			rec.info.LastActive = s.now()
			return sessionID, nil
		}
	}

	id := uuid.Must(uuid.NewV7()).String()
	now := s.now()
	s.sessions[id] = &record{info: Info{
		ID:         id,
		UserID:     userID,
		AppName:    s.appName,
		CreatedAt:  now,
		LastActive: now,
	}}
	return id, nil
}

func (s *memoryStore) Touch(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	rec.info.LastActive = s.now()
	rec.info.EventCount++
}

func (s *memoryStore) Delete(ctx context.Context, userID, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok || rec.info.UserID != userID {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

func (s *memoryStore) Describe(ctx context.Context, userID, sessionID string) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()

	rec, ok := s.sessions[sessionID]
	if !ok || rec.info.UserID != userID {
		return Info{}, false
	}
	return rec.info, true
}

// evictExpired drops sessions idle past the ttl. Callers must hold the lock.
func (s *memoryStore) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, rec := range s.sessions {
		if rec.info.LastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
