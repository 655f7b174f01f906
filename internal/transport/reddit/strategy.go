package reddit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/domain/termvec"
)

// probe carries one search request through the strategy chain.
type probe struct {
	query     string
	community string
	limit     int
	terms     []string // significant query terms, extracted once
}

// strategy is one step of the fallback chain. needed gates the step on what
// has been accumulated so far; fetch returns additional candidates.
type strategy struct {
	name   string
	needed func(p probe, have []domain.Post) bool
	fetch  func(ctx context.Context, c *Client, p probe) []domain.Post
}

// strategies is the ordered fallback chain: direct query search, keyword
// probes, recency filter, all-scope retry, backup-community sweep.
var strategies = []strategy{
	{
		name:   "direct",
		needed: func(probe, []domain.Post) bool { return true },
		fetch: func(ctx context.Context, c *Client, p probe) []domain.Post {
			return c.Search(ctx, p.query, p.community, p.limit)
		},
	},
	{
		name: "keyword_probes",
		needed: func(p probe, have []domain.Post) bool {
			return len(have) < p.limit/2
		},
		fetch: func(ctx context.Context, c *Client, p probe) []domain.Post {
			var found []domain.Post
			for i, term := range p.terms {
				if i > 0 && !c.pause(ctx) {
					break
				}
				found = append(found, c.Search(ctx, term, p.community, p.limit)...)
			}
			return found
		},
	},
	{
		name: "recency_filter",
		needed: func(p probe, have []domain.Post) bool {
			return len(have) < p.limit
		},
		fetch: func(ctx context.Context, c *Client, p probe) []domain.Post {
			recent := c.ListRecent(ctx, p.community, 3*p.limit)
			var found []domain.Post
			for _, post := range recent {
				if termvec.MatchesHalf(post.Title+" "+post.Body, p.terms) {
					found = append(found, post)
				}
			}
			return found
		},
	},
	{
		name: "all_scope_retry",
		needed: func(p probe, have []domain.Post) bool {
			return len(have) < 3 && p.community != AllCommunities
		},
		fetch: func(ctx context.Context, c *Client, p probe) []domain.Post {
			return c.Search(ctx, p.query, AllCommunities, p.limit)
		},
	},
	{
		name: "backup_sweep",
		needed: func(p probe, have []domain.Post) bool {
			return len(have) < 3
		},
		fetch: func(ctx context.Context, c *Client, p probe) []domain.Post {
			communities := []string{SuggestCommunity(p.query)}
			for _, community := range backupCommunities {
				if community != communities[0] {
					communities = append(communities, community)
				}
			}
			var found []domain.Post
			for i, community := range communities {
				if i > 0 && !c.pause(ctx) {
					break
				}
				found = append(found, c.ListHot(ctx, community, 10)...)
				if len(found) >= p.limit {
					break
				}
			}
			return found
		},
	},
}

// FindPosts runs the fallback chain until the accumulated unique-by-URL
// result count reaches limit, then orders the result by policy.
func (c *Client) FindPosts(ctx context.Context, query, community string, limit int, policy RankPolicy) []domain.Post {
	p := probe{
		query:     query,
		community: NormalizeCommunity(community),
		limit:     c.clampLimit(limit),
		terms:     termvec.SignificantTerms(query, 3),
	}

	var acc []domain.Post
	for _, s := range strategies {
		if !s.needed(p, acc) {
			continue
		}
		found := s.fetch(ctx, c, p)
		acc = domain.DedupeByURL(append(acc, found...))
		c.logger.Debug("search strategy done",
			zap.String("strategy", s.name),
			zap.String("community", p.community),
			zap.Int("found", len(found)),
			zap.Int("accumulated", len(acc)),
		)
		if len(acc) >= p.limit {
			break
		}
	}

	if len(acc) > p.limit {
		acc = acc[:p.limit]
	}
	policy.Apply(acc)
	return acc
}

// pause sleeps for the configured backup delay. Returns false when the
// context was cancelled during the wait.
func (c *Client) pause(ctx context.Context) bool {
	if c.backupDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.backupDelay):
		return true
	}
}
