package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// InMemorySessionStore keeps sessions in a process-local map.
// Sessions are lost on restart and are not shared between instances.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]identity.Session
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates the store and starts a goroutine that
// sweeps expired sessions every cleanupInterval.
func NewInMemorySessionStore(ttl, cleanupInterval time.Duration) *InMemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	s := &InMemorySessionStore{
		sessions: make(map[string]identity.Session),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

func (s *InMemorySessionStore) Create(ctx context.Context, userID uuid.UUID, username string) (*identity.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, shared.NewStorageError("Failed to create session", err)
	}
	session := identity.Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return &session, nil
}

func (s *InMemorySessionStore) Resolve(ctx context.Context, token string) (*identity.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || !s.now().Before(session.ExpiresAt) {
		return nil, shared.ErrUnauthorized
	}
	return &session, nil
}

// Revoke is a no-op for unknown tokens
func (s *InMemorySessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemorySessionStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Size returns the number of stored sessions, expired ones included
func (s *InMemorySessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ identity.SessionStore = (*InMemorySessionStore)(nil)
