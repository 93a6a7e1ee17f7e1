package models

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedState() FilterState {
	s := DefaultFilterState()
	s.Search = "творог"
	s.Tags = []Tag{TagCurd, TagSweet}
	s.ProteinRange = Range{Min: 12.5, Max: 100}
	s.ProteinPerCalorieMin = 8
	s.LabTestedOnly = true
	s.SortBy = SortByPrice
	s.SortOrder = SortAsc
	return s
}

func TestMemoryFilterStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFilterStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, store.Save(ctx, savedState()))

	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, savedState(), p.Merged())
}

func TestSQLiteFilterStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "filters.db")

	store, err := NewSQLiteFilterStore(path, DefaultStorageKey)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, store.Save(ctx, DefaultFilterState()))
	require.NoError(t, store.Save(ctx, savedState()), "second save overwrites the first")

	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, savedState(), p.Merged())
	require.NoError(t, store.Close())

	t.Run("State survives reopening", func(t *testing.T) {
		reopened, err := NewSQLiteFilterStore(path, DefaultStorageKey)
		require.NoError(t, err)
		defer reopened.Close()

		p, err := reopened.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, savedState(), p.Merged())
	})

	t.Run("Keys are isolated", func(t *testing.T) {
		other, err := NewSQLiteFilterStore(path, "another-user")
		require.NoError(t, err)
		defer other.Close()

		_, err = other.Load(ctx)
		assert.ErrorIs(t, err, ErrStateNotFound)
	})
}
