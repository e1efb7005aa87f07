package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Well-known preference keys. Existing state files use these names, so they
// stay stable across releases.
const (
	KeyAccessToken = "access_token"
	KeySaved       = "connectiq_saved"
	KeyHistory     = "connectiq_history"
	KeyTheme       = "connectiq_theme"
)

// PrefsStore handles key-value preference operations
type PrefsStore struct {
	db *sql.DB
}

// NewPrefsStore creates a new preferences store from a base store
func NewPrefsStore(store *Store) *PrefsStore {
	if store == nil {
		return nil
	}
	return &PrefsStore{db: store.DB()}
}

// Get returns the stored value for key and whether it was present
func (ps *PrefsStore) Get(ctx context.Context, key string) (string, bool, error) {
	if ps == nil || ps.db == nil {
		return "", false, fmt.Errorf("prefs store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return "", false, fmt.Errorf("empty preference key")
	}
	var out string
	err := ps.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key=?`, key).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Set upserts the value for key, overwriting any prior value
func (ps *PrefsStore) Set(ctx context.Context, key, value string) error {
	if ps == nil || ps.db == nil {
		return fmt.Errorf("prefs store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty preference key")
	}
	_, err := ps.db.ExecContext(ctx, `INSERT INTO preferences(key, value, updated_at)
VALUES(?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`, key, value, time.Now().Unix())
	return err
}

// Remove deletes the value for key; removing an absent key is not an error
func (ps *PrefsStore) Remove(ctx context.Context, key string) error {
	if ps == nil || ps.db == nil {
		return fmt.Errorf("prefs store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty preference key")
	}
	_, err := ps.db.ExecContext(ctx, `DELETE FROM preferences WHERE key=?`, key)
	return err
}
