package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionExpired = errors.New("form session expired")

type formSession struct {
	Form      Form
	ExpiresAt time.Time
}

// SessionStore keeps each visitor's in-progress form in memory.
// Nothing is persisted; entries expire after the TTL of inactivity.
type SessionStore struct {
	sessions map[string]*formSession
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*formSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session holding an empty form
func (s *SessionStore) Create() (string, Form) {
	id := uuid.NewString()
	form := NewForm()

	s.mu.Lock()
	s.sessions[id] = &formSession{Form: form, ExpiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return id, form
}

// Get returns the session's form, or ErrSessionExpired if it is unknown or stale
func (s *SessionStore) Get(id string) (Form, error) {
	s.mu.RLock()
	session, exists := s.sessions[id]
	s.mu.RUnlock()

	if !exists {
		return Form{}, ErrSessionExpired
	}

	if s.now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Form{}, ErrSessionExpired
	}

	return session.Form, nil
}

// Save stores form under id and extends its expiry
func (s *SessionStore) Save(id string, form Form) {
	s.mu.Lock()
	s.sessions[id] = &formSession{Form: form, ExpiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Update applies fn to the session's form under the store lock and saves the result,
// even when fn returns an error. Concurrent updates of one session are serialized.
func (s *SessionStore) Update(id string, fn func(Form) (Form, error)) (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists || s.now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return Form{}, ErrSessionExpired
	}

	next, err := fn(session.Form)
	s.sessions[id] = &formSession{Form: next, ExpiresAt: s.now().Add(s.ttl)}
	return next, err
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of sessions, expired ones included until swept
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed
func (s *SessionStore) Sweep() int {
	now := s.now()
	removed := 0

	s.mu.Lock()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
