package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"psocial/client/internal/config"
)

// Refresher exchanges the current access token for a fresh one.
type Refresher interface {
	Refresh() (string, error)
}

var ErrNotAuthenticated = errors.New("not authenticated")

// Session holds the authenticated user's identity and access token.
// Token refresh failure is the one local failure surfaced to the UI: the
// session is cleared and the error is pushed on the Errors channel.
type Session struct {
	mu    sync.RWMutex
	uid   string
	token string

	refresher Refresher
	errs      chan error
}

func New(refresher Refresher) *Session {
	return &Session{
		refresher: refresher,
		errs:      make(chan error, 4),
	}
}

func (s *Session) SetAuth(uid, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
	s.token = token
}

func (s *Session) Uid() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Uid() != ""
}

// Clear drops the identity and token.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = ""
	s.token = ""
}

// Errors is the user-visible error channel. Only authentication failures
// are ever delivered here.
func (s *Session) Errors() <-chan error {
	return s.errs
}

// Refresh renews the token. On failure the session is cleared and the
// error surfaced; callers in background loops ignore the return value.
func (s *Session) Refresh() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	token, err := s.refresher.Refresh()
	if err != nil {
		log.Println("Token refresh failed, clearing session:", err)
		s.Clear()
		select {
		case s.errs <- err:
		default:
		}
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// RefreshIn derives the next refresh delay from the token's exp claim,
// renewing at three quarters of the remaining lifetime. Tokens without a
// readable expiry fall back to the fixed interval.
func (s *Session) RefreshIn() time.Duration {
	tok := s.Token()
	if tok == "" {
		return config.TokenRefreshInterval
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return config.TokenRefreshInterval
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return config.TokenRefreshInterval
	}
	remaining := time.Until(exp.Time)
	if remaining <= 0 {
		return time.Second
	}
	return remaining * 3 / 4
}
