package providers

import (
	"sync"
	"surveyd/internal/structures"
	"time"

	"github.com/google/uuid"
)

// Session is an issued admin credential. Tokens live only in process
// memory: a restart invalidates every session, which is intended.
type Session struct {
	Token     string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type SessionProviderInterface interface {
	Issue(ip string) Session
	Validate(token string) bool
	Revoke(token string)
	SweepExpired() int
	ActiveCount() int
}

type SessionProvider struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionProvider(conf *structures.Config) SessionProviderInterface {
	return &SessionProvider{
		ttl:      conf.Auth.TokenTTL,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (sp *SessionProvider) Issue(ip string) Session {
	now := sp.now()
	s := Session{
		Token:     uuid.NewString(),
		IPAddress: ip,
		CreatedAt: now,
		ExpiresAt: now.Add(sp.ttl),
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.sessions[s.Token] = s
	return s
}

// Validate reports whether the token is registered and unexpired.
// Expired entries found here are evicted immediately rather than waiting
// for the background sweep.
func (sp *SessionProvider) Validate(token string) bool {
	if token == "" {
		return false
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	s, ok := sp.sessions[token]
	if !ok {
		return false
	}
	if sp.now().After(s.ExpiresAt) {
		delete(sp.sessions, token)
		return false
	}
	return true
}

// Revoke removes a session. Revoking an unknown or already-expired token
// is not an error.
func (sp *SessionProvider) Revoke(token string) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	delete(sp.sessions, token)
}

// SweepExpired removes all expired sessions and returns how many were
// evicted. Bounds memory even when no validation traffic arrives.
func (sp *SessionProvider) SweepExpired() int {
	now := sp.now()

	sp.mu.Lock()
	defer sp.mu.Unlock()

	evicted := 0
	for token, s := range sp.sessions {
		if now.After(s.ExpiresAt) {
			delete(sp.sessions, token)
			evicted++
		}
	}
	return evicted
}

func (sp *SessionProvider) ActiveCount() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return len(sp.sessions)
}
