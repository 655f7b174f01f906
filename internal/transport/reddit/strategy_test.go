package reddit

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func postsForCommunity(community string, n, scoreBase int) []fakePost {
	posts := make([]fakePost, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, fakePost{
			Title:    community + " post",
			Selftext: "laptop programming content",
			Permalnk: "/r/" + community + "/" + string(rune('a'+i)),
			Sub:      community,
			Score:    scoreBase + i,
		})
	}
	return posts
}

func TestFindPosts_DirectSearchSufficient(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		if strings.Contains(r.URL.Path, "/search.json") {
			return 200, listingJSON(postsForCommunity("golang", 6, 10)...)
		}
		return 404, ""
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "laptop for programming", "golang", 6, RankByScore)
	if len(posts) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(posts))
	}
	if len(f.requests) != 1 {
		t.Fatalf("expected direct search only, got requests: %v", f.requests)
	}
	// Raw score descending.
	for i := 1; i < len(posts); i++ {
		if posts[i].Score > posts[i-1].Score {
			t.Fatal("expected descending score order")
		}
	}
}

func TestFindPosts_KeywordProbesWhenThin(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		q := r.URL.Query().Get("q")
		switch {
		case q == "laptop advice programming":
			return 200, listingJSON() // direct search comes back empty
		case q == "laptop":
			return 200, listingJSON(postsForCommunity("golang", 4, 5)...)
		case q == "advice" || q == "programming":
			return 200, listingJSON()
		case strings.Contains(r.URL.Path, "/new.json"):
			return 200, listingJSON()
		default:
			return 200, listingJSON()
		}
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "laptop advice programming", "golang", 8, RankByScore)
	if len(posts) != 4 {
		t.Fatalf("expected 4 posts from keyword probes, got %d", len(posts))
	}

	var probed []string
	for _, req := range f.requests {
		if strings.Contains(req, "search.json") {
			probed = append(probed, req)
		}
	}
	// 1 direct + 3 keyword probes.
	if len(probed) != 4 {
		t.Fatalf("expected 4 search calls, got %v", probed)
	}
}

func TestFindPosts_RecencyFilterKeepsMatchingPosts(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		switch {
		case strings.Contains(r.URL.Path, "/search.json"):
			return 200, listingJSON(postsForCommunity("golang", 5, 10)...) // thin but above limit/2
		case strings.Contains(r.URL.Path, "/new.json"):
			return 200, listingJSON(
				fakePost{Title: "about laptop programming", Selftext: "students ask", Permalnk: "/r/golang/n1", Sub: "golang", Score: 2},
				fakePost{Title: "unrelated cooking", Selftext: "recipes", Permalnk: "/r/golang/n2", Sub: "golang", Score: 2},
			)
		default:
			return 404, ""
		}
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "best laptop programming students", "golang", 8, RankByScore)

	urls := make(map[string]bool)
	for _, p := range posts {
		urls[p.URL] = true
	}
	if !urls["https://reddit.com/r/golang/n1"] {
		t.Fatal("expected matching recent post to be kept")
	}
	if urls["https://reddit.com/r/golang/n2"] {
		t.Fatal("expected non-matching recent post to be dropped")
	}
}

func TestFindPosts_AllScopeRetry(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/r/all/search.json"):
			return 200, listingJSON(postsForCommunity("all", 5, 7)...)
		case strings.Contains(r.URL.Path, "/hot.json"):
			return 200, listingJSON()
		default:
			return 200, listingJSON()
		}
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "obscure niche topic", "tinysub", 10, RankByScore)
	if len(posts) != 5 {
		t.Fatalf("expected 5 posts from all-scope retry, got %d", len(posts))
	}

	sawAllScope := false
	for _, req := range f.requests {
		if strings.HasPrefix(req, "/r/all/search.json") {
			sawAllScope = true
		}
	}
	if !sawAllScope {
		t.Fatalf("expected an all-scope search request, got %v", f.requests)
	}
}

func TestFindPosts_BackupSweepAsLastResort(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		if strings.HasPrefix(r.URL.Path, "/r/AskReddit/hot.json") {
			return 200, listingJSON(postsForCommunity("AskReddit", 4, 3)...)
		}
		return 200, listingJSON()
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "anything at all really", "", 10, RankByScore)
	if len(posts) != 4 {
		t.Fatalf("expected 4 posts from backup sweep, got %d", len(posts))
	}
	if posts[0].Community != "AskReddit" {
		t.Fatalf("expected backup community posts, got %q", posts[0].Community)
	}
}

func TestFindPosts_TruncatesToLimit(t *testing.T) {
	f := newFakeForum(t, func(r *http.Request) (int, string) {
		if strings.Contains(r.URL.Path, "/search.json") {
			return 200, listingJSON(postsForCommunity("golang", 10, 1)...)
		}
		return 200, listingJSON()
	})
	c := newTestClient(f)

	posts := c.FindPosts(context.Background(), "query", "golang", 4, RankByScore)
	if len(posts) != 4 {
		t.Fatalf("expected result truncated to 4, got %d", len(posts))
	}
}
