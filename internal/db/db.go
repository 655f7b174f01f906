package db

import (
	"context"
	"time"
)

// Store is the key-value facade backing the vector and answer caches.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides the key-value operations the caches need: read, delete,
// and set-if-absent with a TTL.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SetNXWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
