package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found or expired")

// Session is a login session recorded by the authentication service.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CompanyID string    `json:"company_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore keeps sessions in a Cache with a fixed TTL. The expiry
// timestamp is stored with the session and checked on every lookup, so
// backends that do not expire keys on their own behave the same way.
type SessionStore struct {
	manager *CacheManager
	ttl     time.Duration
	now     func() time.Time
}

// NewSessionStore creates a store over c. A non-positive ttl uses SessionTTL.
func NewSessionStore(c Cache, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionStore{
		manager: NewCacheManager(c),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for expiry. Intended for tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create records a new session for id and returns it with its expiry set.
func (s *SessionStore) Create(ctx context.Context, id, username, companyID string) (Session, error) {
	sess := Session{
		ID:        id,
		Username:  username,
		CompanyID: companyID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.manager.SetJSON(ctx, SessionKey(id), sess, s.ttl); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Lookup returns the live session for id or ErrSessionNotFound.
func (s *SessionStore) Lookup(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrSessionNotFound
	}
	var sess Session
	err := s.manager.GetJSON(ctx, SessionKey(id), &sess)
	if errors.Is(err, ErrCacheMiss) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Revoke deletes the session for id.
func (s *SessionStore) Revoke(ctx context.Context, id string) error {
	return s.manager.Delete(ctx, SessionKey(id))
}
