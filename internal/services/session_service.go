package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/connectiq/connectiq-tui/pkg/auth"
)

// SessionServiceImpl implements SessionService. The stored token's presence
// is the sole authentication signal at startup; no network round-trip
// verifies it.
type SessionServiceImpl struct {
	mu     sync.RWMutex
	state  SessionState
	tokens *auth.TokenStore
	client Authenticator
	logger *log.Logger
}

// NewSessionService creates a session service and restores the initial state
// from the token store
func NewSessionService(ctx context.Context, tokens *auth.TokenStore, client Authenticator, logger *log.Logger) *SessionServiceImpl {
	s := &SessionServiceImpl{
		state:  Unauthenticated,
		tokens: tokens,
		client: client,
		logger: logger,
	}
	if _, ok, err := tokens.Get(ctx); err == nil && ok {
		s.state = Authenticated
	}
	return s
}

// State returns the current session state
func (s *SessionServiceImpl) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the stored bearer token, or empty when absent
func (s *SessionServiceImpl) Token(ctx context.Context) string {
	token, ok, err := s.tokens.Get(ctx)
	if err != nil || !ok {
		return ""
	}
	return token
}

// Login exchanges credentials for a token, stores it and transitions the
// session to Authenticated
func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) error {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("session: login: %v", err)
		}
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	s.mu.Lock()
	s.state = Authenticated
	s.mu.Unlock()
	return nil
}

// Signup registers a new account. The session state is unchanged; the user
// logs in afterwards.
func (s *SessionServiceImpl) Signup(ctx context.Context, email, password string) error {
	if err := s.client.Signup(ctx, email, password); err != nil {
		if s.logger != nil {
			s.logger.Printf("session: signup: %v", err)
		}
		return fmt.Errorf("%w: %v", ErrSignupFailed, err)
	}
	return nil
}

// Logout clears the token and transitions to Unauthenticated
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.mu.Lock()
	s.state = Unauthenticated
	s.mu.Unlock()
	return nil
}

// HandleAPIError classifies a failed API call. An authentication-class
// failure clears the token and forces Unauthenticated; the return value
// reports whether that happened.
func (s *SessionServiceImpl) HandleAPIError(ctx context.Context, err error) bool {
	if err == nil || !IsAuthError(err) {
		return false
	}
	if s.logger != nil {
		s.logger.Printf("session: auth failure, forcing logout: %v", err)
	}
	if cerr := s.Logout(ctx); cerr != nil && s.logger != nil {
		s.logger.Printf("session: logout after auth failure: %v", cerr)
	}
	return true
}
