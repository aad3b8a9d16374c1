package sentstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sent.json"))

	ids, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sent.json"))

	want := []int{278, 238, 240}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	// Order-preserving, no duplicates introduced.
	assert.Equal(t, want, got)

	// save(load()) leaves contents unchanged.
	require.NoError(t, store.Save(got))
	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

	_, err := New(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestSaveCreatesDirectoryAndIsAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	path := filepath.Join(dir, "sent.json")
	store := New(path)

	require.NoError(t, store.Save([]int{1, 2}))

	// No temp file left behind after rename.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sent.json", entries[0].Name())

	// Human-readable JSON array on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(data))
}

func TestSaveOverwritesPriorState(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sent.json"))

	require.NoError(t, store.Save([]int{1, 2, 3}))
	require.NoError(t, store.Save([]int{9}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{9}, got)
}
