package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const tokenBytes = 32

// Sessions maps opaque bearer tokens to usernames. State is kept
// in-process, so a restart logs everyone out.
type Sessions struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	byToken map[string]session
}

type session struct {
	username  string
	expiresAt time.Time
}

func NewSessions(ttlMinutes int64) *Sessions {
	return &Sessions{
		ttl:     time.Duration(ttlMinutes) * time.Minute,
		clock:   time.Now,
		byToken: make(map[string]session),
	}
}

func (s *Sessions) Start(username string) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate session token")
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.byToken[token] = session{username: username, expiresAt: s.clock().Add(s.ttl)}
	return token, nil
}

// evictExpired drops sessions past their deadline so tokens that are
// never presented again cannot accumulate. Caller holds mu.
func (s *Sessions) evictExpired() {
	now := s.clock()
	for token, sess := range s.byToken {
		if now.After(sess.expiresAt) {
			delete(s.byToken, token)
		}
	}
}

// Resolve returns the username behind a live token and renews its
// expiry, rolling-session style.
func (s *Sessions) Resolve(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return "", false
	}
	now := s.clock()
	if now.After(sess.expiresAt) {
		delete(s.byToken, token)
		return "", false
	}
	sess.expiresAt = now.Add(s.ttl)
	s.byToken[token] = sess
	return sess.username, true
}

func (s *Sessions) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
