// Package autosave keeps a snapshot of the open document in local key-value
// storage so it can be restored on the next start.
//
// There is exactly one record. Every write overwrites it.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/colonyops/csword/internal/core/kv"
	"github.com/colonyops/csword/internal/core/logging"
	"github.com/colonyops/csword/internal/data/stores"
	"github.com/rs/zerolog"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "cybersoft.word.autosave.v2"

const namespace = "autosave"

// Record is the persisted snapshot.
type Record struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
	TS    int64  `json:"ts"` // unix milliseconds
}

// Options configures a Controller.
type Options struct {
	Key      string        // default: DefaultKey
	Debounce time.Duration // 0 writes on every Schedule
	Now      func() time.Time
}

// Controller writes and restores the autosave record.
type Controller struct {
	store *kv.TypedKV[Record]
	key   string
	opts  Options
	log   zerolog.Logger

	// writeMu orders writes so the newest snapshot is always written last.
	writeMu sync.Mutex

	mu        sync.Mutex
	pending   *Record
	timer     *time.Timer
	lastWrite time.Time
}

// New returns a controller persisting to store. A nil store falls back to
// process memory.
func New(store kv.KV, opts Options) *Controller {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	log := logging.Component("autosave")
	if store == nil {
		log.Warn().Msg("no persistent store available, autosave kept in memory")
		store = stores.NewMemoryKVStore()
	}

	return &Controller{
		store: kv.Scoped[Record](store, namespace),
		key:   opts.Key,
		opts:  opts,
		log:   log,
	}
}

// Restore returns the stored record. It reports false when there is no
// record, it cannot be read or decoded, or it holds no content.
func (c *Controller) Restore(ctx context.Context) (Record, bool) {
	rec, err := c.store.Get(ctx, c.key)
	if err != nil {
		if stores.IsNotFoundError(err) {
			c.log.Debug().Str("key", c.key).Msg("no autosave record")
		} else {
			c.log.Debug().Err(err).Str("key", c.key).Msg("discarding unreadable autosave record")
		}
		return Record{}, false
	}

	if rec.HTML == "" {
		c.log.Debug().Str("key", c.key).Msg("discarding empty autosave record")
		return Record{}, false
	}
	return rec, true
}

// Schedule records a snapshot of the document. With no debounce it is
// written before Schedule returns; otherwise the newest snapshot is written
// once the debounce interval passes without another call.
func (c *Controller) Schedule(ctx context.Context, title, html string) {
	rec := Record{Title: title, HTML: html, TS: c.opts.Now().UnixMilli()}

	c.mu.Lock()
	c.pending = &rec

	if c.opts.Debounce <= 0 {
		c.mu.Unlock()
		c.writePending(ctx)
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		c.writePending(context.Background())
	})
	c.mu.Unlock()
}

// Flush writes any pending snapshot now.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.writePending(ctx)
}

// Pending reports whether a snapshot is waiting to be written.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// LastWrite returns the time of the last successful write.
func (c *Controller) LastWrite() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastWrite, !c.lastWrite.IsZero()
}

// Key returns the storage key of the record.
func (c *Controller) Key() string {
	return c.store.Key(c.key)
}

func (c *Controller) writePending(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	rec := c.pending
	c.pending = nil
	c.mu.Unlock()

	if rec == nil {
		return
	}

	if err := c.store.Set(ctx, c.key, *rec); err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("key", c.key).Msg("autosave write failed")
		return
	}

	c.mu.Lock()
	c.lastWrite = c.opts.Now()
	c.mu.Unlock()

	c.log.Debug().Ctx(ctx).Str("title", rec.Title).Int("bytes", len(rec.HTML)).Msg("autosaved")
}
