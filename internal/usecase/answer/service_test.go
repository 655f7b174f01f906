package answer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/threadsage/threadsage/internal/domain"
)

func testConfig() Config {
	return Config{
		BroadLimit:   20,
		FocusedLimit: 15,
		ContextTopK:  4,
		ExcerptChars: 400,
	}
}

func newTestService(forum *fakeForum, gen *fakeGenerator) (*Service, *memAnswerCache) {
	answers := newMemAnswerCache()
	svc := New(forum, gen, newMemVectorCache(), answers, testConfig(), nil)
	return svc, answers
}

func laptopPost(community string, n, score int) domain.Post {
	return domain.Post{
		Title:     fmt.Sprintf("Thread %d about laptops", n),
		Body:      "Any laptop with 16GB RAM works fine for programming coursework.",
		URL:       fmt.Sprintf("https://reddit.com/r/%s/%d", community, n),
		Community: community,
		Score:     score,
		Comments:  3,
	}
}

func TestAnswerEndToEnd(t *testing.T) {
	forum := &fakeForum{fn: func(_, community string, _ int) []domain.Post {
		posts := make([]domain.Post, 5)
		for i := range posts {
			posts[i] = laptopPost("SuggestALaptop", i, 10+i)
		}
		if community == "SuggestALaptop" {
			return posts[:4]
		}
		return posts
	}}
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if !strings.Contains(prompt, "best laptop for programming students") {
			t.Errorf("prompt missing query: %q", prompt)
		}
		if !strings.Contains(prompt, "Post from r/SuggestALaptop") {
			t.Errorf("prompt missing post context: %q", prompt)
		}
		return "Most commenters recommend a ThinkPad with 16GB RAM.", nil
	}}
	svc, _ := newTestService(forum, gen)

	got := svc.Answer(context.Background(), "best laptop for programming students", "")

	if got.PostsFound != 4 {
		t.Errorf("PostsFound = %d, want 4 (focused count)", got.PostsFound)
	}
	if got.Text != "Most commenters recommend a ThinkPad with 16GB RAM." {
		t.Errorf("Text = %q", got.Text)
	}
	if len(forum.calls) != 2 {
		t.Fatalf("forum calls = %d, want broad + focused", len(forum.calls))
	}
	if forum.calls[0].limit != 20 || forum.calls[1].limit != 15 {
		t.Errorf("limits = %d, %d, want 20, 15", forum.calls[0].limit, forum.calls[1].limit)
	}
	if forum.calls[1].community != "SuggestALaptop" {
		t.Errorf("focused community = %q", forum.calls[1].community)
	}
}

func TestAnswerRedirectsToMajorityCommunity(t *testing.T) {
	var broad []domain.Post
	for i := 0; i < 10; i++ {
		broad = append(broad, laptopPost("buildapc", i, 5))
	}
	for i := 10; i < 13; i++ {
		broad = append(broad, laptopPost("laptops", i, 5))
	}

	forum := &fakeForum{fn: func(_, community string, _ int) []domain.Post {
		if community == "" {
			return broad
		}
		return broad[:2]
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) { return "answer", nil }}
	svc, _ := newTestService(forum, gen)

	svc.Answer(context.Background(), "best laptop for programming students", "")

	if got := forum.calls[1].community; got != "buildapc" {
		t.Errorf("focus community = %q, want majority %q", got, "buildapc")
	}
}

func TestAnswerFocusedMissFallsBackToBroadSet(t *testing.T) {
	forum := &fakeForum{fn: func(_, community string, _ int) []domain.Post {
		if community != "" {
			return nil
		}
		return []domain.Post{laptopPost("laptops", 1, 5), laptopPost("laptops", 2, 7)}
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) { return "answer", nil }}
	svc, _ := newTestService(forum, gen)

	got := svc.Answer(context.Background(), "best laptop for programming students", "")

	if got.PostsFound != 2 {
		t.Errorf("PostsFound = %d, want stage-1 set size 2", got.PostsFound)
	}
}

func TestAnswerGenerationFailureProducesExtractiveFallback(t *testing.T) {
	forum := &fakeForum{fn: func(_, community string, _ int) []domain.Post {
		return []domain.Post{
			laptopPost("laptops", 1, 50),
			laptopPost("laptops", 2, 10),
			laptopPost("laptops", 3, 90),
		}
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) {
		return "", domain.ErrGenerationFailed
	}}
	svc, _ := newTestService(forum, gen)

	got := svc.Answer(context.Background(), "best laptop for programming students", "")

	if !strings.HasPrefix(got.Text, domain.FallbackPrefix) {
		t.Fatalf("Text = %q, want fallback prefix", got.Text)
	}
	if got.PostsFound != 3 {
		t.Errorf("PostsFound = %d, want focused count 3", got.PostsFound)
	}
	// Highest score first in the bulleted synthesis.
	if !strings.Contains(got.Text, "(90 points)") {
		t.Errorf("fallback missing top-scored excerpt: %q", got.Text)
	}
}

func TestAnswerSentinelResponseTriggersFallback(t *testing.T) {
	forum := &fakeForum{fn: func(_, _ string, _ int) []domain.Post {
		return []domain.Post{laptopPost("laptops", 1, 5)}
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) {
		return "Quota exceeded for this API key.", nil
	}}
	svc, _ := newTestService(forum, gen)

	got := svc.Answer(context.Background(), "best laptop for programming students", "")
	if !strings.HasPrefix(got.Text, domain.FallbackPrefix) {
		t.Fatalf("sentinel response not treated as failure: %q", got.Text)
	}
}

func TestAnswerNoDiscussionsIsNeverCached(t *testing.T) {
	forum := &fakeForum{}
	gen := &fakeGenerator{}
	svc, answers := newTestService(forum, gen)

	got := svc.Answer(context.Background(), "best laptop for programming students", "")

	if got.Text != domain.MsgNoDiscussions {
		t.Errorf("Text = %q, want no-discussions message", got.Text)
	}
	if got.PostsFound != 0 {
		t.Errorf("PostsFound = %d, want 0", got.PostsFound)
	}
	if answers.putCount != 0 {
		t.Errorf("zero-post result was cached (%d writes)", answers.putCount)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times on empty result", gen.calls)
	}
}

func TestAnswerCachedResultSkipsPipeline(t *testing.T) {
	forum := &fakeForum{}
	gen := &fakeGenerator{}
	svc, answers := newTestService(forum, gen)

	want := domain.Answer{Text: "cached answer", PostsFound: 7}
	answers.PutResult(context.Background(), "q", "laptops", want)
	answers.putCount = 0

	got := svc.Answer(context.Background(), "q", "laptops")
	if got != want {
		t.Errorf("got %+v, want cached %+v", got, want)
	}
	if len(forum.calls) != 0 {
		t.Errorf("forum searched %d times on cache hit", len(forum.calls))
	}
}

func TestAnswerGeneratedTextIsMemoized(t *testing.T) {
	forum := &fakeForum{fn: func(_, _ string, _ int) []domain.Post {
		return []domain.Post{laptopPost("laptops", 1, 5)}
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) { return "generated once", nil }}

	answers := newMemAnswerCache()
	vectors := newMemVectorCache()

	svc := New(forum, gen, vectors, answers, testConfig(), nil)
	first := svc.Answer(context.Background(), "best laptop for programming students", "")

	// Same query with a different requested community misses the result
	// cache but hits the memoized generated text.
	second := svc.Answer(context.Background(), "best laptop for programming students", "laptops")

	if first.Text != second.Text {
		t.Errorf("answers diverged: %q vs %q", first.Text, second.Text)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestAnswerCancelledContextIsInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	forum := &fakeForum{}
	svc, _ := newTestService(forum, &fakeGenerator{})

	got := svc.Answer(ctx, "anything", "")
	if got.Text != domain.MsgInterrupted {
		t.Errorf("Text = %q, want interrupted message", got.Text)
	}
	if len(forum.calls) != 0 {
		t.Errorf("forum searched after interruption")
	}
}

func TestAnswerRecoversFromPanic(t *testing.T) {
	forum := &fakeForum{fn: func(_, _ string, _ int) []domain.Post {
		panic("boom")
	}}
	svc, _ := newTestService(forum, &fakeGenerator{})

	got := svc.Answer(context.Background(), "best laptop for programming students", "")
	if got.Text != domain.MsgInternalError {
		t.Errorf("Text = %q, want internal-error message", got.Text)
	}
}

func TestSynthesizeFallbackCleansExcerpts(t *testing.T) {
	posts := []domain.Post{{
		Title:     "t",
		Body:      "Check [this guide](https://example.com) for setup.\nSource: https://example.com/thread",
		Community: "laptops",
		Score:     12,
	}}

	got := synthesizeFallback(posts)
	if strings.Contains(got, "](") {
		t.Errorf("markdown link survived: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "source:") {
		t.Errorf("trailer survived: %q", got)
	}
	if !strings.Contains(got, "this guide") {
		t.Errorf("link label dropped: %q", got)
	}
}

func TestSynthesizeFallbackNoUsableExcerpts(t *testing.T) {
	posts := []domain.Post{
		{Title: "title only", Community: "laptops", Score: 3},
		{Title: "another", Body: "   ", Community: "laptops", Score: 1},
	}
	if got := synthesizeFallback(posts); got != domain.MsgNoConsensus {
		t.Errorf("got %q, want no-consensus message", got)
	}
}

func TestExcerptTruncatesAtWordBoundary(t *testing.T) {
	body := strings.Repeat("word ", 100)
	got := excerpt(body)
	if len(got) > excerptMaxChars+3 {
		t.Errorf("excerpt length %d exceeds bound", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated excerpt missing ellipsis: %q", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "..."), "wor") {
		t.Errorf("cut mid-word: %q", got)
	}
}
