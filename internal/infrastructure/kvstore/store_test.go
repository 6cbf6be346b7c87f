package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/nihongo/internal/repository"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "kv.db")
	db, err := sqlx.Connect("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	store, err := NewSQLStore(context.Background(), db, dialect.SQLite)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func stores(t *testing.T) map[string]repository.KeyValueStore {
	return map[string]repository.KeyValueStore{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "a", []byte(`{"v":1}`)))
			require.NoError(t, store.Set(ctx, "a", []byte(`{"v":2}`)))
			got, ok, err := store.Get(ctx, "a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"v":2}`, string(got))

			require.NoError(t, store.Delete(ctx, "a", "never-set"))
			_, ok, err = store.Get(ctx, "a")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreSetMany(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "keep", []byte(`1`)))
			require.NoError(t, store.SetMany(ctx, map[string][]byte{
				"x": []byte(`"x"`),
				"y": []byte(`"y"`),
			}))
			for key, want := range map[string]string{"keep": `1`, "x": `"x"`, "y": `"y"`} {
				got, ok, err := store.Get(ctx, key)
				require.NoError(t, err)
				require.True(t, ok, key)
				assert.Equal(t, want, string(got))
			}
		})
	}
}

func TestSQLStoreKeys(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.SetMany(ctx, map[string][]byte{"b": []byte(`1`), "a": []byte(`2`)}))
	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()
	assert.ErrorIs(t, store.Set(ctx, "a", nil), context.Canceled)
}
