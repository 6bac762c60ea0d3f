package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/csword/internal/core/kv"
	memkv "github.com/colonyops/csword/pkg/kv"
)

// MemoryKVStore implements kv.KV in process memory. It stands in for the
// SQLite store when the data directory cannot be opened; nothing survives
// the process.
type MemoryKVStore struct {
	data *memkv.Store[string, kv.Entry]
}

var _ kv.KV = (*MemoryKVStore)(nil)

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: memkv.New[string, kv.Entry]()}
}

func (s *MemoryKVStore) Get(ctx context.Context, key string, dest any) error {
	entry, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (s *MemoryKVStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now()
	s.data.Update(key, func(old kv.Entry, exists bool) kv.Entry {
		created := now
		if exists {
			created = old.CreatedAt
		}
		return kv.Entry{Key: key, Value: data, CreatedAt: created, UpdatedAt: now}
	})
	return nil
}

func (s *MemoryKVStore) Delete(_ context.Context, key string) error {
	s.data.Delete(key)
	return nil
}

func (s *MemoryKVStore) Has(_ context.Context, key string) (bool, error) {
	_, ok := s.data.Get(key)
	return ok, nil
}

func (s *MemoryKVStore) ListKeys(_ context.Context) ([]string, error) {
	return s.data.Keys(), nil
}

func (s *MemoryKVStore) GetRaw(_ context.Context, key string) (kv.Entry, error) {
	entry, ok := s.data.Get(key)
	if !ok {
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	return entry, nil
}
