package service

import (
	"sync"
	"time"

	"Mansoor88-6/vr-event-console/internal/access"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessGrant is an opened event session handed to the operator
type AccessGrant struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   *access.Session `json:"session"`
}

// SessionStore keeps opened event sessions until they expire
type SessionStore struct {
	mu        sync.RWMutex
	grants    map[string]*AccessGrant
	ttl       time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	cleanupWg sync.WaitGroup
}

// NewSessionStore creates a new session store with TTL-based expiration
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	store := &SessionStore{
		grants:   make(map[string]*AccessGrant),
		ttl:      ttl,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	store.cleanupWg.Add(1)
	go store.cleanupLoop()

	return store
}

// SetTTL changes the lifetime of sessions opened from now on
func (s *SessionStore) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
}

// Store keeps session and returns the grant that refers to it
func (s *SessionStore) Store(session *access.Session) *AccessGrant {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant := &AccessGrant{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.ttl),
		Session:   session,
	}
	s.grants[grant.Token] = grant

	s.logger.Debug("Stored event session",
		zap.String("event_id", session.Event.ID),
		zap.Time("expires_at", grant.ExpiresAt),
	)
	return grant
}

// Get returns the grant for token if it exists and hasn't expired
func (s *SessionStore) Get(token string) (*AccessGrant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant, exists := s.grants[token]
	if !exists || time.Now().After(grant.ExpiresAt) {
		return nil, false
	}
	return grant, true
}

// Revoke ends a session early
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.grants, token)
	s.mu.Unlock()
}

// cleanupLoop periodically removes expired entries
func (s *SessionStore) cleanupLoop() {
	defer s.cleanupWg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *SessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for token, grant := range s.grants {
		if now.After(grant.ExpiresAt) {
			delete(s.grants, token)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		s.logger.Debug("Cleaned up expired sessions",
			zap.Int("count", expiredCount),
		)
	}
}

// Stop stops the cleanup goroutine
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.cleanupWg.Wait()
	s.logger.Info("Session store stopped")
}
