package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := Delivery{
		MovieID: 278,
		Title:   "Втеча з Шоушенка",
		Rating:  8.7,
		Caption: "🎬 Назва: <b>Втеча з Шоушенка</b>",
		SentAt:  time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC),
	}
	second := Delivery{
		MovieID: 238,
		Title:   "Хрещений батько",
		Rating:  8.7,
		Caption: "🎬 Назва: <b>Хрещений батько</b>",
		SentAt:  time.Date(2024, 3, 7, 10, 1, 0, 0, time.UTC),
	}

	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, 238, got[0].MovieID)
	assert.Equal(t, "Хрещений батько", got[0].Title)
	assert.Equal(t, first.SentAt, got[1].SentAt)
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Record(ctx, Delivery{
			MovieID: i + 1, Title: "t", Rating: 8, Caption: "c", SentAt: time.Now(),
		}))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 5, got[0].MovieID)
}

func TestRecentEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	require.Error(t, err)
}
