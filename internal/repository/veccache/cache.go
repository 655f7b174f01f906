// Package veccache persists computed term vectors in a key-value store so
// repeat queries skip vectorization of posts already seen.
package veccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/db"
	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/domain/termvec"
)

var keyPrefix = domain.KeyPrefix + "post_vector:"

// store is the consumer interface for the vector cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SetNXWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is an advisory vector cache keyed by (community, title). Content is
// not part of the key: a stale entry can return a vector computed from
// different content sharing the same title, an accepted approximation.
// Every storage failure is treated as a miss or no-op, never an error.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a vector cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns the cached vector for a post, if present.
func (c *Cache) Get(ctx context.Context, community, title string) (termvec.Vector, bool) {
	key := cacheKey(community, title)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("failed to get cached vector", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return termvec.Vector{}, false
	}

	var vec termvec.Vector
	if err := json.Unmarshal(data, &vec); err != nil {
		c.logger.Warn("failed to parse cached vector", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return termvec.Vector{}, false
	}

	c.incCache("hit")
	return vec, true
}

// Put stores a vector with the configured TTL. A pre-existing key is deleted
// first so the new value always gets a fresh TTL.
func (c *Cache) Put(ctx context.Context, community, title string, vec termvec.Vector) {
	key := cacheKey(community, title)

	data, err := json.Marshal(vec)
	if err != nil {
		c.logger.Warn("failed to encode vector", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn("failed to evict stale vector", zap.String("key", key), zap.Error(err))
	}
	if err := c.store.SetNXWithTTL(ctx, key, data, c.ttl); err != nil && !errors.Is(err, db.ErrKeyExists) {
		c.logger.Warn("failed to cache vector", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(community, title string) string {
	h := sha256.New()
	h.Write([]byte(community))
	h.Write([]byte{0})
	h.Write([]byte(title))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
