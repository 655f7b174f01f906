package answer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/threadsage/threadsage/internal/domain"
)

const (
	fallbackPosts   = 3
	excerptMaxChars = 300
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	linkTrailer  = regexp.MustCompile(`(?is)(source:|link to post:).*$`)
)

// synthesizeFallback composes a bulleted extractive answer from the
// highest-scored posts when generation is unavailable.
func synthesizeFallback(posts []domain.Post) string {
	var b strings.Builder
	b.WriteString(domain.FallbackPrefix)

	used := 0
	for _, p := range sortByScore(posts) {
		if used == fallbackPosts {
			break
		}
		ex := excerpt(p.Body)
		if ex == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n• From r/%s (%d points): %s", p.Community, p.Score, ex)
		used++
	}

	if used == 0 {
		return domain.MsgNoConsensus
	}
	return b.String()
}

// excerpt cleans a post body for quoting: markdown links collapse to
// their label, "source:"/"link to post:" trailers are dropped, and the
// result is cut at a word boundary near the length bound.
func excerpt(body string) string {
	text := markdownLink.ReplaceAllString(body, "$1")
	text = linkTrailer.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if len(text) > excerptMaxChars {
		cut := text[:excerptMaxChars]
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
		text = strings.TrimRight(cut, " \n") + "..."
	}
	return text
}
