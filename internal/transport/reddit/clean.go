package reddit

import (
	"regexp"
	"strings"
)

const maxBodyChars = 1000

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
	strikeRe    = regexp.MustCompile(`~~(.*?)~~`)
	linkRe      = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText strips common Reddit markdown from a post body, collapses runs
// of blank lines, and caps the length.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = strikeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if len(text) > maxBodyChars {
		text = text[:maxBodyChars] + "..."
	}
	return text
}
