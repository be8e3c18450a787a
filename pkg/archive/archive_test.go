package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both stores must behave identically from the caller's point of view.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func TestPutAssignsIDAndTimestamp(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			ctx := context.Background()

			rec := &Record{UserText: "hello", Reply: "hi", DurationMS: 1200}
			require.NoError(t, store.Put(ctx, rec))

			assert.NotZero(t, rec.ID)
			assert.False(t, rec.CreatedAt.IsZero())
		})
	}
}

func TestListReturnsInsertionOrder(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, &Record{UserText: "first", Reply: "a"}))
			require.NoError(t, store.Put(ctx, &Record{UserText: "second", Reply: "b"}))
			require.NoError(t, store.Put(ctx, &Record{UserText: "third", Reply: "c"}))

			records, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 3)

			assert.Equal(t, "first", records[0].UserText)
			assert.Equal(t, "second", records[1].UserText)
			assert.Equal(t, "third", records[2].UserText)
			assert.Less(t, records[0].ID, records[1].ID)
		})
	}
}

func TestListEmpty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			records, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestSQLiteStorePersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "turns.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), &Record{UserText: "kept", Reply: "yes"}))
	require.NoError(t, store.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].UserText)
}
