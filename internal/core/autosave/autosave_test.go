package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/csword/internal/core/kv"
	"github.com/colonyops/csword/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// countingKV records Set calls and can be made to fail.
type countingKV struct {
	kv.KV

	mu   sync.Mutex
	sets int
	fail error
}

func (c *countingKV) Set(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	c.sets++
	fail := c.fail
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.KV.Set(ctx, key, value)
}

func (c *countingKV) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func TestController_ScheduleAndRestore(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKVStore()
	c := New(store, Options{Now: clock})

	c.Schedule(ctx, "notes.csw", "<p>hi</p>")

	rec, ok := New(store, Options{}).Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, Record{Title: "notes.csw", HTML: "<p>hi</p>", TS: fixedNow.UnixMilli()}, rec)

	last, ok := c.LastWrite()
	assert.True(t, ok)
	assert.Equal(t, fixedNow, last)
}

func TestController_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKVStore()
	c := New(store, Options{Now: clock})

	c.Schedule(ctx, "a", "<p>1</p>")
	c.Schedule(ctx, "b", "<p>2</p>")

	rec, ok := c.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "b", rec.Title)
	assert.Equal(t, "<p>2</p>", rec.HTML)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{c.Key()}, keys, "exactly one record is kept")
}

func TestController_Restore_Absent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, store kv.KV, key string)
	}{
		{
			name:  "missing",
			setup: func(*testing.T, kv.KV, string) {},
		},
		{
			name: "malformed",
			setup: func(t *testing.T, store kv.KV, key string) {
				require.NoError(t, store.Set(ctx, key, "not a record"))
			},
		},
		{
			name: "wrong shape",
			setup: func(t *testing.T, store kv.KV, key string) {
				require.NoError(t, store.Set(ctx, key, map[string]any{"title": 7}))
			},
		},
		{
			name: "empty html",
			setup: func(t *testing.T, store kv.KV, key string) {
				require.NoError(t, store.Set(ctx, key, Record{Title: "x", TS: 1}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := stores.NewMemoryKVStore()
			c := New(store, Options{})
			tt.setup(t, store, c.Key())

			_, ok := c.Restore(ctx)
			assert.False(t, ok)
		})
	}
}

func TestController_CustomKey(t *testing.T) {
	ctx := context.Background()
	store := stores.NewMemoryKVStore()

	New(store, Options{Key: "other"}).Schedule(ctx, "t", "<p>x</p>")

	_, ok := New(store, Options{}).Restore(ctx)
	assert.False(t, ok)

	_, ok = New(store, Options{Key: "other"}).Restore(ctx)
	assert.True(t, ok)
}

func TestController_Debounce(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{KV: stores.NewMemoryKVStore()}
	c := New(store, Options{Debounce: 20 * time.Millisecond})

	c.Schedule(ctx, "t", "<p>1</p>")
	c.Schedule(ctx, "t", "<p>2</p>")
	c.Schedule(ctx, "t", "<p>3</p>")
	assert.True(t, c.Pending())

	require.Eventually(t, func() bool { return !c.Pending() }, time.Second, 5*time.Millisecond)

	rec, ok := c.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "<p>3</p>", rec.HTML)
	assert.Equal(t, 1, store.count(), "scheduled writes are coalesced")
}

func TestController_Flush(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{KV: stores.NewMemoryKVStore()}
	c := New(store, Options{Debounce: time.Hour})

	c.Schedule(ctx, "t", "<p>pending</p>")
	assert.Zero(t, store.count())

	c.Flush(ctx)

	assert.False(t, c.Pending())
	rec, ok := c.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "<p>pending</p>", rec.HTML)

	c.Flush(ctx)
	assert.Equal(t, 1, store.count(), "flush without pending snapshot does nothing")
}

func TestController_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{KV: stores.NewMemoryKVStore(), fail: errors.New("disk full")}
	c := New(store, Options{})

	c.Schedule(ctx, "t", "<p>x</p>")

	assert.Equal(t, 1, store.count())
	assert.False(t, c.Pending())
	_, ok := c.LastWrite()
	assert.False(t, ok)
	_, ok = c.Restore(ctx)
	assert.False(t, ok)
}

func TestController_NilStore(t *testing.T) {
	ctx := context.Background()
	c := New(nil, Options{})

	c.Schedule(ctx, "t", "<p>x</p>")

	rec, ok := c.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "<p>x</p>", rec.HTML)
}
