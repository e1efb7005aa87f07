package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// historyKey is the persisted preference key for recent searches
const historyKey = "connectiq_history"

// maxHistory caps the number of remembered search terms
const maxHistory = 4

// HistoryServiceImpl implements HistoryService over a key-value store.
// The list is most-recent-first and rewritten wholesale on every change.
type HistoryServiceImpl struct {
	kv     KeyValue
	logger *log.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(kv KeyValue, logger *log.Logger) *HistoryServiceImpl {
	return &HistoryServiceImpl{kv: kv, logger: logger}
}

// Record inserts a term at the front of the history. A term already present
// anywhere in the list is neither re-inserted nor promoted.
func (s *HistoryServiceImpl) Record(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return ErrInvalidInput
	}
	if s.kv == nil {
		return ErrStoreUnavailable
	}

	terms, err := s.All(ctx)
	if err != nil {
		return err
	}
	for _, t := range terms {
		if t == term {
			return nil
		}
	}

	terms = append([]string{term}, terms...)
	if len(terms) > maxHistory {
		terms = terms[:maxHistory]
	}
	return s.persist(ctx, terms)
}

// All returns the remembered terms, most recent first
func (s *HistoryServiceImpl) All(ctx context.Context) ([]string, error) {
	if s.kv == nil {
		return nil, ErrStoreUnavailable
	}
	raw, ok, err := s.kv.Get(ctx, historyKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		// Corrupted history is dropped rather than propagated
		if s.logger != nil {
			s.logger.Printf("history: discarding corrupted entry: %v", err)
		}
		return nil, nil
	}
	return terms, nil
}

// Clear forgets all remembered terms
func (s *HistoryServiceImpl) Clear(ctx context.Context) error {
	if s.kv == nil {
		return ErrStoreUnavailable
	}
	return s.kv.Remove(ctx, historyKey)
}

func (s *HistoryServiceImpl) persist(ctx context.Context, terms []string) error {
	data, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, historyKey, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
