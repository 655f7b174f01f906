// Package reddit implements the forum client: Reddit's public JSON listings
// plus the multi-strategy search policy layered on top of them.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/metrics"
)

// AllCommunities is the pseudo-scope used when no community is requested.
const AllCommunities = "all"

// Config holds forum client settings.
type Config struct {
	BaseURL     string
	UserAgent   string
	MaxPosts    int           // hard cap on limit per listing request
	Timeout     time.Duration // per-request deadline
	BackupDelay time.Duration // pause between backup-source calls
	Logger      *zap.Logger
}

// Client fetches posts from the Reddit read API. Failures are absorbed:
// every public method returns an empty slice on error and logs the cause,
// so callers degrade instead of aborting.
type Client struct {
	baseURL     string
	userAgent   string
	maxPosts    int
	backupDelay time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a forum client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxPosts := cfg.MaxPosts
	if maxPosts <= 0 {
		maxPosts = 25
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		maxPosts:    maxPosts,
		backupDelay: cfg.BackupDelay,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Search runs a relevance-sorted query search restricted to one community.
func (c *Client) Search(ctx context.Context, query, community string, limit int) []domain.Post {
	community = NormalizeCommunity(community)
	limit = c.clampLimit(limit)

	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", "relevance")
	q.Set("limit", strconv.Itoa(limit))

	return c.fetchListing(ctx, community, "search", "/search.json?"+q.Encode())
}

// ListRecent fetches the newest posts of a community.
func (c *Client) ListRecent(ctx context.Context, community string, limit int) []domain.Post {
	community = NormalizeCommunity(community)
	limit = c.clampLimit(limit)
	return c.fetchListing(ctx, community, "new",
		"/new.json?limit="+strconv.Itoa(limit))
}

// ListTop fetches the top posts of a community within a time window
// (hour, day, week, month, year, all).
func (c *Client) ListTop(ctx context.Context, community string, limit int, window string) []domain.Post {
	community = NormalizeCommunity(community)
	limit = c.clampLimit(limit)
	if window == "" {
		window = "week"
	}
	return c.fetchListing(ctx, community, "top",
		"/top.json?t="+url.QueryEscape(window)+"&limit="+strconv.Itoa(limit))
}

// ListHot fetches the current hot posts of a community.
func (c *Client) ListHot(ctx context.Context, community string, limit int) []domain.Post {
	community = NormalizeCommunity(community)
	limit = c.clampLimit(limit)
	return c.fetchListing(ctx, community, "hot",
		"/hot.json?limit="+strconv.Itoa(limit))
}

// NormalizeCommunity strips the "r/" prefix and maps a blank community to
// the all-communities pseudo-scope.
func NormalizeCommunity(community string) string {
	community = strings.TrimSpace(community)
	community = strings.TrimPrefix(community, "r/")
	if community == "" {
		return AllCommunities
	}
	return community
}

func (c *Client) clampLimit(limit int) int {
	if limit <= 0 || limit > c.maxPosts {
		return c.maxPosts
	}
	return limit
}

// fetchListing performs one retry-free GET against a listing endpoint and
// parses the result. endpoint is the metrics label ("search", "new", ...).
func (c *Client) fetchListing(ctx context.Context, community, endpoint, pathAndQuery string) []domain.Post {
	reqURL := fmt.Sprintf("%s/r/%s%s", c.baseURL, url.PathEscape(community), pathAndQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		c.logger.Warn("build reddit request", zap.String("url", reqURL), zap.Error(err))
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ForumRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.logger.Warn("reddit request failed",
			zap.String("endpoint", endpoint),
			zap.String("community", community),
			zap.Error(err),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ForumRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn("reddit non-success status",
			zap.String("endpoint", endpoint),
			zap.String("community", community),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		metrics.ForumRequestsTotal.WithLabelValues(endpoint, "parse_error").Inc()
		c.logger.Warn("parse reddit listing",
			zap.String("endpoint", endpoint),
			zap.String("community", community),
			zap.Error(err),
		)
		return nil
	}

	metrics.ForumRequestsTotal.WithLabelValues(endpoint, "200").Inc()
	return parseListing(listing)
}

// listingResponse mirrors the Reddit listing JSON shape we consume.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				Selftext    string `json:"selftext"`
				Permalink   string `json:"permalink"`
				Subreddit   string `json:"subreddit"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// parseListing converts listing items to posts, applying the exclusion
// rules: sentinel titles/bodies are dropped, and a post must have a title
// plus at least one signal (positive score, comments, or a body).
func parseListing(listing listingResponse) []domain.Post {
	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		if isSentinel(d.Title) || isSentinel(d.Selftext) {
			continue
		}
		if d.Title == "" {
			continue
		}
		body := CleanText(d.Selftext)
		if d.Score <= 0 && d.NumComments == 0 && body == "" {
			continue
		}
		posts = append(posts, domain.Post{
			Title:     d.Title,
			Body:      body,
			URL:       "https://reddit.com" + d.Permalink,
			Community: d.Subreddit,
			Score:     d.Score,
			Comments:  d.NumComments,
		})
	}
	return domain.DedupeByURL(posts)
}

func isSentinel(text string) bool {
	return text == "[deleted]" || text == "[removed]"
}
