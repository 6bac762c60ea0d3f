// Package kv defines the key-value persistence contract used for local
// document state.
package kv

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a raw stored value with its timestamps.
type Entry struct {
	Key       string
	Value     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KV is a persistent key-value store. Values are stored as JSON. Set
// overwrites any previous value under the key.
//
// Get and GetRaw on a missing key return an error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
	GetRaw(ctx context.Context, key string) (Entry, error)
}
