package journal_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/beacon/pkg/beacon/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) journal.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Record_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Record(journal.NewEntry("batch-1", "http://a.example", nil)))
		require.NoError(t, store.Record(journal.NewEntry("batch-1", "http://b.example", errors.New("HTTP 500"))))
		require.NoError(t, store.Record(journal.NewEntry("batch-2", "http://c.example", nil)))

		entries, err := store.List("batch-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "http://a.example", entries[0].URL)
		assert.False(t, entries[0].Failed())
		assert.Equal(t, "http://b.example", entries[1].URL)
		assert.True(t, entries[1].Failed())
		assert.Equal(t, "HTTP 500", entries[1].Error)
		assert.NotEmpty(t, entries[0].ID)
		assert.False(t, entries[0].SentAt.IsZero())
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		entries, err := store.List("batch-nonexistent")
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)

		recent, err := store.Recent(10)
		require.NoError(t, err)
		assert.NotNil(t, recent)
		assert.Empty(t, recent)
	})

	t.Run(name+"/Record_AssignsID", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Record(journal.Entry{BatchID: "b", URL: "u"}))
		entries, err := store.List("b")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.NotEmpty(t, entries[0].ID)
	})

	t.Run(name+"/Recent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		for _, u := range []string{"u1", "u2", "u3"} {
			require.NoError(t, store.Record(journal.NewEntry("b", u, nil)))
		}

		entries, err := store.Recent(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "u3", entries[0].URL)
		assert.Equal(t, "u2", entries[1].URL)

		all, err := store.Recent(0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		err := store.Record(journal.NewEntry("b", "u", nil))
		assert.ErrorIs(t, err, journal.ErrStoreClosed)

		_, err = store.List("b")
		assert.ErrorIs(t, err, journal.ErrStoreClosed)

		_, err = store.Recent(1)
		assert.ErrorIs(t, err, journal.ErrStoreClosed)
	})

	t.Run(name+"/Concurrent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		const goroutines = 20
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for range goroutines {
			go func() {
				defer wg.Done()
				_ = store.Record(journal.NewEntry("concurrent", "u", nil))
				_, _ = store.List("concurrent")
			}()
		}
		wg.Wait()

		entries, err := store.List("concurrent")
		require.NoError(t, err)
		assert.Len(t, entries, goroutines)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) journal.Store {
		return journal.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) journal.Store {
		store, err := journal.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "beacons.db")

	store1, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Record(journal.NewEntry("batch-1", "http://a.example", nil)))
	require.NoError(t, store1.Close())

	store2, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	entries, err := store2.List("batch-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http://a.example", entries[0].URL)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := journal.NewSQLiteStore("/nonexistent/path/beacons.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := journal.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestMemoryStore_Len(t *testing.T) {
	store := journal.NewMemoryStore()
	require.NoError(t, store.Record(journal.NewEntry("b", "u", nil)))
	assert.Equal(t, 1, store.Len())
}
