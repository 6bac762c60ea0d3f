package kv_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/colonyops/csword/internal/core/kv"
	"github.com/colonyops/csword/internal/data/db"
	"github.com/colonyops/csword/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every KV implementation so the typed wrapper is checked
// against both.
func backends(t *testing.T) map[string]kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return map[string]kv.KV{
		"sqlite": stores.NewKVStore(database),
		"memory": stores.NewMemoryKVStore(),
	}
}

func TestTypedKV_SetAndGet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			typed := kv.Scoped[string](store, "test")

			require.NoError(t, typed.Set(ctx, "greeting", "hello"))

			got, err := typed.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.Equal(t, "hello", got)
		})
	}
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			alpha := kv.Scoped[int](store, "alpha")
			beta := kv.Scoped[int](store, "beta")

			require.NoError(t, alpha.Set(ctx, "count", 10))
			require.NoError(t, beta.Set(ctx, "count", 20))

			a, err := alpha.Get(ctx, "count")
			require.NoError(t, err)
			assert.Equal(t, 10, a)

			b, err := beta.Get(ctx, "count")
			require.NoError(t, err)
			assert.Equal(t, 20, b)

			keys, err := store.ListKeys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha:count", "beta:count"}, keys)
			assert.Equal(t, "alpha:count", alpha.Key("count"))
		})
	}
}

func TestTypedKV_Delete(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			typed := kv.Scoped[string](store, "ns")

			require.NoError(t, typed.Set(ctx, "key", "val"))
			require.NoError(t, typed.Delete(ctx, "key"))

			has, err := typed.Has(ctx, "key")
			require.NoError(t, err)
			assert.False(t, has)

			_, err = typed.Get(ctx, "key")
			assert.ErrorIs(t, err, sql.ErrNoRows)
		})
	}
}

func TestTypedKV_DecodeMismatch(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "ns:key", "not a number"))

			_, err := kv.Scoped[int](store, "ns").Get(ctx, "key")
			assert.Error(t, err)
		})
	}
}

func TestTypedKV_StructValue(t *testing.T) {
	type record struct {
		Title string `json:"title"`
		TS    int64  `json:"ts"`
	}

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			typed := kv.Scoped[record](store, "doc")

			require.NoError(t, typed.Set(ctx, "current", record{Title: "a.csw", TS: 42}))

			got, err := typed.Get(ctx, "current")
			require.NoError(t, err)
			assert.Equal(t, record{Title: "a.csw", TS: 42}, got)
		})
	}
}
