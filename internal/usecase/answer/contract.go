package answer

import (
	"context"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/domain/termvec"
)

// ForumSearcher runs the multi-strategy forum search and returns up to
// limit unique posts. Failures are absorbed by the searcher; an empty
// slice is the only degraded signal.
type ForumSearcher interface {
	FindPosts(ctx context.Context, query, community string, limit int) []domain.Post
}

// Generator produces free-text answers from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorCache persists computed term vectors keyed by (community, title).
// Both operations are advisory: a lookup failure is a miss, a store
// failure is a no-op.
type VectorCache interface {
	Get(ctx context.Context, community, title string) (termvec.Vector, bool)
	Put(ctx context.Context, community, title string, vec termvec.Vector)
}

// AnswerCache memoizes final results by (query, community) and generated
// text by (query, context). Advisory, like VectorCache.
type AnswerCache interface {
	GetResult(ctx context.Context, query, community string) (domain.Answer, bool)
	PutResult(ctx context.Context, query, community string, ans domain.Answer)
	GetGenerated(ctx context.Context, query, contextText string) (string, bool)
	PutGenerated(ctx context.Context, query, contextText, text string)
}
