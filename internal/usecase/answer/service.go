// Package answer implements the three-stage retrieval pipeline: broad
// discovery, community redirection, focused search, then ranking,
// generation, and extractive fallback.
package answer

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/domain/termvec"
	"github.com/threadsage/threadsage/internal/metrics"
)

// significantTermMinLen is the length threshold for keyword extraction.
const significantTermMinLen = 3

// Config holds the pipeline tuning knobs.
type Config struct {
	BroadLimit   int           // stage-1 discovery fetch size
	FocusedLimit int           // stage-3 focused fetch size
	ContextTopK  int           // ranked posts kept for the prompt
	ExcerptChars int           // per-post body bound in the prompt
	PacingDelay  time.Duration // minimum spacing between pipelines
}

// Service orchestrates a query end to end. All degraded outcomes are
// natural-language messages inside a success-shaped Answer; the only
// hard failure mode is an empty query, rejected at the transport layer.
type Service struct {
	forum   ForumSearcher
	gen     Generator
	vectors VectorCache
	answers AnswerCache
	limiter *rate.Limiter
	cfg     Config
	logger  *zap.Logger
}

// New creates the retrieval orchestrator.
func New(forum ForumSearcher, gen Generator, vectors VectorCache, answers AnswerCache, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.PacingDelay > 0 {
		lim = rate.NewLimiter(rate.Every(cfg.PacingDelay), 1)
	}
	return &Service{
		forum:   forum,
		gen:     gen,
		vectors: vectors,
		answers: answers,
		limiter: lim,
		cfg:     cfg,
		logger:  logger,
	}
}

// Answer runs the full pipeline for one query. It never returns an
// error: transport failures, generation failures, and empty result sets
// all degrade into messages with PostsFound reflecting what was used.
func (s *Service) Answer(ctx context.Context, query, community string) (ans domain.Answer) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pipeline panic",
				zap.Any("panic", r),
				zap.String("query", query),
			)
			ans = domain.Answer{Text: domain.MsgInternalError}
		}
	}()

	// Pacing wait to respect the forum API's implicit rate limits.
	// Cancellation here aborts the whole query.
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.Answer{Text: domain.MsgInterrupted}
	}

	if cached, ok := s.answers.GetResult(ctx, query, community); ok {
		return cached
	}

	terms := termvec.SignificantTerms(query, significantTermMinLen)

	// Stage 1: broad discovery in the requested scope.
	broad := s.forum.FindPosts(ctx, query, community, s.cfg.BroadLimit)
	filtered := filterByTerms(broad, terms)
	if len(filtered) == 0 {
		// Never cached: a later identical query may find fresh posts.
		return domain.Answer{Text: domain.MsgNoDiscussions}
	}

	// Stage 2: redirect to the community that dominates the filtered set.
	focus := majorityCommunity(filtered)
	s.logger.Debug("community redirect",
		zap.String("focus", focus),
		zap.Int("broad", len(broad)),
		zap.Int("filtered", len(filtered)),
	)

	// Stage 3: focused re-search, falling back to the stage-1 set.
	posts := s.forum.FindPosts(ctx, query, focus, s.cfg.FocusedLimit)
	if len(posts) == 0 {
		posts = filtered
	}

	contextText := s.assembleContext(ctx, query, posts)

	text := s.generate(ctx, query, contextText)
	if domain.IsGenerationFailure(text) {
		metrics.FallbackAnswersTotal.Inc()
		text = synthesizeFallback(posts)
	}

	result := domain.Answer{Text: text, PostsFound: len(posts)}
	s.answers.PutResult(ctx, query, community, result)
	return result
}

// assembleContext vectorizes the candidate set through the vector cache,
// ranks by cosine similarity to the query, and renders the top K posts
// into the generation context.
func (s *Service) assembleContext(ctx context.Context, query string, posts []domain.Post) string {
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.CombinedText()
	}

	vocab := termvec.BuildVocabulary(query, texts)
	queryVec := vocab.Vectorize(query)

	vectors := make([]termvec.Vector, len(posts))
	for i, p := range posts {
		if v, ok := s.vectors.Get(ctx, p.Community, p.Title); ok {
			vectors[i] = v
			continue
		}
		v := vocab.Vectorize(texts[i])
		s.vectors.Put(ctx, p.Community, p.Title, v)
		vectors[i] = v
	}

	ranked := termvec.Rank(queryVec, vectors)
	topK := s.cfg.ContextTopK
	if topK > len(ranked) {
		topK = len(ranked)
	}

	parts := make([]string, 0, topK)
	for _, r := range ranked[:topK] {
		parts = append(parts, posts[r.Index].ContextText(s.cfg.ExcerptChars))
	}
	return strings.Join(parts, "\n\n")
}

// generate returns the generated answer text, memoized by (query,
// context). A provider error yields "" so the caller falls back.
func (s *Service) generate(ctx context.Context, query, contextText string) string {
	if text, ok := s.answers.GetGenerated(ctx, query, contextText); ok {
		return text
	}

	text, err := s.gen.Generate(ctx, buildPrompt(query, contextText))
	if err != nil {
		s.logger.Warn("answer generation failed", zap.Error(err))
		return ""
	}
	if !domain.IsGenerationFailure(text) {
		s.answers.PutGenerated(ctx, query, contextText, text)
	}
	return text
}

// filterByTerms keeps posts whose combined text contains at least half
// of the query's significant terms.
func filterByTerms(posts []domain.Post, terms []string) []domain.Post {
	var kept []domain.Post
	for _, p := range posts {
		if termvec.MatchesHalf(p.CombinedText(), terms) {
			kept = append(kept, p)
		}
	}
	return kept
}

// majorityCommunity returns the most frequent community in the set.
// Ties resolve to whichever community reached the max count first.
func majorityCommunity(posts []domain.Post) string {
	counts := make(map[string]int, len(posts))
	best := posts[0].Community
	for _, p := range posts {
		counts[p.Community]++
		if counts[p.Community] > counts[best] {
			best = p.Community
		}
	}
	return best
}

// sortByScore returns a copy ordered by raw score descending.
func sortByScore(posts []domain.Post) []domain.Post {
	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}
