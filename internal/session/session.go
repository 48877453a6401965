// Package session holds the bearer token for the signed-in user. A Session
// is created at startup from the persisted token, updated on login and
// cleared on logout; it is passed explicitly to whatever needs it.
package session

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// Store persists the token across restarts.
type Store interface {
	SaveToken(ctx context.Context, token string) error
}

type Session struct {
	store Store

	mu    sync.RWMutex
	token string
}

func New(token string, store Store) *Session {
	return &Session{store: store, token: Normalize(token)}
}

// Normalize strips an optional leading "Bearer" scheme (any case) and
// surrounding whitespace.
func Normalize(token string) string {
	token = strings.TrimSpace(token)

	const scheme = "bearer"
	if len(token) > len(scheme) && strings.EqualFold(token[:len(scheme)], scheme) {
		if rest := token[len(scheme):]; unicode.IsSpace(rune(rest[0])) {
			token = rest
		}
	}

	return strings.TrimSpace(token)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Begin replaces the current token and persists it.
func (s *Session) Begin(ctx context.Context, token string) error {
	return s.set(ctx, Normalize(token))
}

// End clears the token.
func (s *Session) End(ctx context.Context) error {
	return s.set(ctx, "")
}

func (s *Session) set(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	return s.store.SaveToken(ctx, token)
}
