package answer

import (
	"context"
	"sync"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/domain/termvec"
)

type forumCall struct {
	query     string
	community string
	limit     int
}

type fakeForum struct {
	calls []forumCall
	fn    func(query, community string, limit int) []domain.Post
}

func (f *fakeForum) FindPosts(_ context.Context, query, community string, limit int) []domain.Post {
	f.calls = append(f.calls, forumCall{query: query, community: community, limit: limit})
	if f.fn == nil {
		return nil
	}
	return f.fn(query, community, limit)
}

type fakeGenerator struct {
	calls int
	fn    func(prompt string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	if g.fn == nil {
		return "", domain.ErrGenerationFailed
	}
	return g.fn(prompt)
}

// memVectorCache is an in-memory stand-in for the Redis-backed cache.
type memVectorCache struct {
	mu   sync.Mutex
	data map[string]termvec.Vector
}

func newMemVectorCache() *memVectorCache {
	return &memVectorCache{data: make(map[string]termvec.Vector)}
}

func (c *memVectorCache) Get(_ context.Context, community, title string) (termvec.Vector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[community+"\x00"+title]
	return v, ok
}

func (c *memVectorCache) Put(_ context.Context, community, title string, vec termvec.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[community+"\x00"+title] = vec
}

type memAnswerCache struct {
	mu        sync.Mutex
	results   map[string]domain.Answer
	generated map[string]string
	putCount  int
}

func newMemAnswerCache() *memAnswerCache {
	return &memAnswerCache{
		results:   make(map[string]domain.Answer),
		generated: make(map[string]string),
	}
}

func (c *memAnswerCache) GetResult(_ context.Context, query, community string) (domain.Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.results[query+"\x00"+community]
	return a, ok
}

func (c *memAnswerCache) PutResult(_ context.Context, query, community string, ans domain.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putCount++
	c.results[query+"\x00"+community] = ans
}

func (c *memAnswerCache) GetGenerated(_ context.Context, query, contextText string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.generated[query+"\x00"+contextText]
	return t, ok
}

func (c *memAnswerCache) PutGenerated(_ context.Context, query, contextText, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generated[query+"\x00"+contextText] = text
}
