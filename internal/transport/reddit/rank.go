package reddit

import (
	"sort"

	"github.com/threadsage/threadsage/internal/domain"
)

// RankPolicy orders a result list within a single search call.
type RankPolicy string

const (
	// RankByScore sorts by raw post score descending (default).
	RankByScore RankPolicy = "score"
	// RankByEngagement sorts by score + 2*comments descending.
	RankByEngagement RankPolicy = "engagement"
)

// ParseRankPolicy maps a config string to a policy, defaulting to RankByScore.
func ParseRankPolicy(s string) RankPolicy {
	if RankPolicy(s) == RankByEngagement {
		return RankByEngagement
	}
	return RankByScore
}

// Apply sorts posts in place according to the policy. The sort is stable so
// equal keys keep their retrieval order.
func (p RankPolicy) Apply(posts []domain.Post) {
	switch p {
	case RankByEngagement:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Engagement() > posts[j].Engagement()
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Score > posts[j].Score
		})
	}
}
