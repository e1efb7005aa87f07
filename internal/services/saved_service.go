package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/connectiq/connectiq-tui/internal/api"
)

// savedKey is the persisted preference key for the saved-profiles set
const savedKey = "connectiq_saved"

// SavedServiceImpl implements SavedService over a key-value store. Membership
// is exact-match on profile name; the set is rewritten wholesale per change.
type SavedServiceImpl struct {
	kv     KeyValue
	logger *log.Logger
}

// NewSavedService creates a new saved-profiles service
func NewSavedService(kv KeyValue, logger *log.Logger) *SavedServiceImpl {
	return &SavedServiceImpl{kv: kv, logger: logger}
}

// Toggle removes the profile when one with the same name is saved, otherwise
// adds it. Returns whether the profile is saved after the call.
func (s *SavedServiceImpl) Toggle(ctx context.Context, p api.Profile) (bool, error) {
	if strings.TrimSpace(p.Name) == "" {
		return false, ErrInvalidInput
	}
	if s.kv == nil {
		return false, ErrStoreUnavailable
	}

	profiles, err := s.All(ctx)
	if err != nil {
		return false, err
	}

	kept := profiles[:0:0]
	removed := false
	for _, sp := range profiles {
		if sp.Name == p.Name {
			removed = true
			continue
		}
		kept = append(kept, sp)
	}
	if !removed {
		kept = append(kept, p)
	}
	if err := s.persist(ctx, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// All returns the saved profiles in insertion order
func (s *SavedServiceImpl) All(ctx context.Context) ([]api.Profile, error) {
	if s.kv == nil {
		return nil, ErrStoreUnavailable
	}
	raw, ok, err := s.kv.Get(ctx, savedKey)
	if err != nil {
		return nil, fmt.Errorf("load saved profiles: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var profiles []api.Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		if s.logger != nil {
			s.logger.Printf("saved: discarding corrupted entry: %v", err)
		}
		return nil, nil
	}
	return profiles, nil
}

// IsSaved reports whether a profile with the given name is in the set
func (s *SavedServiceImpl) IsSaved(ctx context.Context, name string) (bool, error) {
	profiles, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	for _, sp := range profiles {
		if sp.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *SavedServiceImpl) persist(ctx context.Context, profiles []api.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode saved profiles: %w", err)
	}
	if err := s.kv.Set(ctx, savedKey, string(data)); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}
