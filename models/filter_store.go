package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultStorageKey is the key filter state is saved under.
const DefaultStorageKey = "hryucha-filters"

// ErrStateNotFound is returned by Load when nothing has been saved yet.
var ErrStateNotFound = errors.New("filter state not found")

// FilterStatePersistence stores the filter state between sessions. Load
// returns a partial state that callers merge onto the default.
type FilterStatePersistence interface {
	Load(ctx context.Context) (FilterPatch, error)
	Save(ctx context.Context, state FilterState) error
}

func encodeFilterState(state FilterState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter state: %w", err)
	}
	return data, nil
}

// MemoryFilterStore keeps the last saved state in process memory.
type MemoryFilterStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryFilterStore() *MemoryFilterStore {
	return &MemoryFilterStore{}
}

func (s *MemoryFilterStore) Load(_ context.Context) (FilterPatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return FilterPatch{}, ErrStateNotFound
	}
	return DecodeFilterPatch(s.data)
}

func (s *MemoryFilterStore) Save(_ context.Context, state FilterState) error {
	data, err := encodeFilterState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
