// Package anscache memoizes the orchestrator's final results and generated
// answer texts to suppress duplicate expensive work.
package anscache

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
)

var (
	resultPrefix    = domain.KeyPrefix + "answer:"
	generatedPrefix = domain.KeyPrefix + "gen_text:"
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SetNXWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is an advisory memo of final answers keyed by (query, community)
// and of generated texts keyed by (query, context). Storage failures are
// logged and treated as misses or no-ops.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an answer cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// GetResult returns the memoized final answer for a query, if present.
func (c *Cache) GetResult(ctx context.Context, query, community string) (domain.Answer, bool) {
	key := hashKey(resultPrefix, query, community)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("failed to get cached answer", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return domain.Answer{}, false
	}

	var ans domain.Answer
	if err := json.Unmarshal(data, &ans); err != nil {
		c.logger.Warn("failed to parse cached answer", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return domain.Answer{}, false
	}

	c.incCache("hit")
	return ans, true
}

// PutResult memoizes a final answer. Zero-post results are never stored:
// an empty outcome should be retried, not replayed.
func (c *Cache) PutResult(ctx context.Context, query, community string, ans domain.Answer) {
	if ans.PostsFound == 0 {
		return
	}
	data, err := json.Marshal(ans)
	if err != nil {
		c.logger.Warn("failed to encode answer", zap.Error(err))
		return
	}
	c.write(ctx, hashKey(resultPrefix, query, community), data)
}

// GetGenerated returns the memoized LLM output for a (query, context) pair.
func (c *Cache) GetGenerated(ctx context.Context, query, contextText string) (string, bool) {
	key := hashKey(generatedPrefix, query, contextText)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("failed to get cached generation", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return string(data), true
}

// PutGenerated memoizes an LLM output.
func (c *Cache) PutGenerated(ctx context.Context, query, contextText, text string) {
	if text == "" {
		return
	}
	c.write(ctx, hashKey(generatedPrefix, query, contextText), []byte(text))
}

// write applies the delete-then-set-if-absent policy so a rewritten key
// always carries a fresh TTL.
func (c *Cache) write(ctx context.Context, key string, data []byte) {
	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn("failed to evict stale answer", zap.String("key", key), zap.Error(err))
	}
	if err := c.store.SetNXWithTTL(ctx, key, data, c.ttl); err != nil && !errors.Is(err, db.ErrKeyExists) {
		c.logger.Warn("failed to cache answer", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func hashKey(prefix, a, b string) string {
	h := sha256.New()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return prefix + hex.EncodeToString(h.Sum(nil))
}
