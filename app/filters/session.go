package filters

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/hryucha/protein-catalog/app/urlstate"
	"github.com/hryucha/protein-catalog/models"
	"go.uber.org/zap"
)

// Session owns the active filter state. Every change is written through the
// persistence port; persistence failures are logged and never reach callers.
//
// Preset selection is a small state machine: no preset, or exactly one.
// Selecting a preset always starts from the default state. Selecting the
// active preset again returns to the default with no preset. Any ad hoc
// update leaves preset mode.
type Session struct {
	store  models.FilterStatePersistence
	logger *zap.Logger

	mu     sync.Mutex
	state  models.FilterState
	preset models.PresetKey
}

func NewSession(store models.FilterStatePersistence, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:  store,
		logger: logger,
		state:  models.DefaultFilterState(),
	}
}

// Restore rebuilds the state at start-up or when a bookmarked URL is opened.
// URL parameters win over the persisted state, which wins over the default.
func (s *Session) Restore(ctx context.Context, q url.Values) models.FilterState {
	state := models.DefaultFilterState()

	if patch := urlstate.Decode(q); !patch.IsEmpty() {
		state = patch.Merged()
	} else if patch, err := s.store.Load(ctx); err == nil {
		state = patch.Merged()
	} else if !errors.Is(err, models.ErrStateNotFound) {
		s.logger.Warn("ignoring unreadable saved filters", zap.Error(err))
	}

	return s.set(ctx, state, "")
}

// State returns the current state and the active preset, "" when none.
func (s *Session) State() (models.FilterState, models.PresetKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Apply(models.FilterPatch{}), s.preset
}

// Update applies an ad hoc change on top of the current state.
func (s *Session) Update(ctx context.Context, patch models.FilterPatch) models.FilterState {
	s.mu.Lock()
	next := s.state.Apply(patch)
	s.mu.Unlock()
	return s.set(ctx, next, "")
}

// SelectPreset switches to the preset with the given key, or back to the
// default when that preset is already active.
func (s *Session) SelectPreset(ctx context.Context, key models.PresetKey) (models.FilterState, models.PresetKey, error) {
	preset, err := models.PresetByKey(key)
	if err != nil {
		return models.FilterState{}, "", err
	}

	s.mu.Lock()
	active := s.preset
	s.mu.Unlock()

	if active == key {
		return s.set(ctx, models.DefaultFilterState(), ""), "", nil
	}
	return s.set(ctx, models.ApplyPreset(preset), key), key, nil
}

// Reset returns to the default state with no preset.
func (s *Session) Reset(ctx context.Context) models.FilterState {
	return s.set(ctx, models.DefaultFilterState(), "")
}

func (s *Session) set(ctx context.Context, state models.FilterState, preset models.PresetKey) models.FilterState {
	s.mu.Lock()
	s.state = state
	s.preset = preset
	s.mu.Unlock()

	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Warn("failed to save filters", zap.Error(err))
	}
	return state.Apply(models.FilterPatch{})
}
