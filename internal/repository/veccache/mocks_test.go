package veccache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/db"
)

// mockKVStore implements the consumer interface for tests. With no
// overrides it behaves as an empty store.
type mockKVStore struct {
	getFn   func(ctx context.Context, key string) ([]byte, error)
	delFn   func(ctx context.Context, key string) error
	setFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	entries map[string][]byte
}

func newMemStore() *mockKVStore {
	m := &mockKVStore{entries: make(map[string][]byte)}
	m.getFn = func(_ context.Context, key string) ([]byte, error) {
		if v, ok := m.entries[key]; ok {
			return v, nil
		}
		return nil, db.ErrKeyNotFound
	}
	m.delFn = func(_ context.Context, key string) error {
		delete(m.entries, key)
		return nil
	}
	m.setFn = func(_ context.Context, key string, value []byte, _ time.Duration) error {
		if _, ok := m.entries[key]; ok {
			return db.ErrKeyExists
		}
		m.entries[key] = value
		return nil
	}
	return m
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockKVStore) SetNXWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T, s store) *Cache {
	t.Helper()
	return New(s, time.Hour, nil, zap.NewNop())
}
