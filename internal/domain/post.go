package domain

import "fmt"

// Post is a single retrieved forum post. Immutable after parsing.
type Post struct {
	Title     string
	Body      string
	URL       string
	Community string
	Score     int
	Comments  int
}

// CombinedText returns the text used for vectorization.
func (p Post) CombinedText() string {
	return p.Title + "\n\n" + p.Body
}

// ContextText renders the post for inclusion in a generation prompt.
// maxBody bounds the body excerpt; 0 means no bound.
func (p Post) ContextText(maxBody int) string {
	body := p.Body
	if maxBody > 0 && len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	return fmt.Sprintf(
		"Post from r/%s (Score: %d, Comments: %d):\nTitle: %s\nContent: %s\n---",
		p.Community, p.Score, p.Comments, p.Title, body,
	)
}

// Engagement is the weighted engagement ranking key: score plus twice the
// comment count.
func (p Post) Engagement() int {
	return p.Score + 2*p.Comments
}

// DedupeByURL removes posts sharing a URL, keeping the higher-scored copy.
// Relative order of first occurrences is preserved.
func DedupeByURL(posts []Post) []Post {
	if len(posts) == 0 {
		return posts
	}
	byURL := make(map[string]int, len(posts))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if i, seen := byURL[p.URL]; seen {
			if p.Score > out[i].Score {
				out[i] = p
			}
			continue
		}
		byURL[p.URL] = len(out)
		out = append(out, p)
	}
	return out
}
