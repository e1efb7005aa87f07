package auth

import (
	"context"
	"fmt"
)

// tokenKey is the persisted preference key for the session bearer token
const tokenKey = "access_token"

// KeyValue is the persistence surface the token store needs. The SQLite
// preferences store satisfies it; tests substitute an in-memory fake.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// TokenStore holds the single session bearer token. One session at a time:
// Save overwrites any prior value. No expiry, no shape validation.
type TokenStore struct {
	kv KeyValue
}

// NewTokenStore creates a token store over the given persistence
func NewTokenStore(kv KeyValue) *TokenStore {
	return &TokenStore{kv: kv}
}

// Save writes the token, overwriting any prior value
func (s *TokenStore) Save(ctx context.Context, token string) error {
	if s == nil || s.kv == nil {
		return fmt.Errorf("token store not initialized")
	}
	return s.kv.Set(ctx, tokenKey, token)
}

// Get returns the stored token and whether one exists
func (s *TokenStore) Get(ctx context.Context) (string, bool, error) {
	if s == nil || s.kv == nil {
		return "", false, fmt.Errorf("token store not initialized")
	}
	return s.kv.Get(ctx, tokenKey)
}

// Clear removes the stored token; clearing an absent token is not an error
func (s *TokenStore) Clear(ctx context.Context) error {
	if s == nil || s.kv == nil {
		return fmt.Errorf("token store not initialized")
	}
	return s.kv.Remove(ctx, tokenKey)
}
