package sessions

import (
	"fmt"
	"sync"
	"time"

	"cinetrackr/utils"
)

// Identity is the authenticated principal a session resolves to.
type Identity struct {
	UserID string
	Email  string
}

type entry struct {
	identity  Identity
	expiresAt time.Time
}

// Service is the server-held session table: opaque token -> identity.
// It is the only component allowed to touch session state; everything else
// goes through Start / Current / End.
type Service struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]entry
}

// NewService creates an empty session table. Sessions live for ttl after
// Start unless ended earlier by logout.
func NewService(ttl time.Duration) *Service {
	return &Service{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
}

// Start binds a fresh opaque token to the given identity and returns it.
func (s *Service) Start(userID, email string) (string, error) {
	token, err := utils.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked()
	s.sessions[token] = entry{
		identity:  Identity{UserID: userID, Email: email},
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Current resolves a token to its identity. A missing, ended, or expired
// session reports ok=false; callers must check before touching owned data.
func (s *Service) Current(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Identity{}, false
	}
	if s.now().After(e.expiresAt) {
		s.End(token)
		return Identity{}, false
	}
	return e.identity, true
}

// End invalidates the session. Ending an unknown token is not an error.
func (s *Service) End(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of live entries, expired ones included until purge.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) purgeExpiredLocked() {
	now := s.now()
	for token, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, token)
		}
	}
}
