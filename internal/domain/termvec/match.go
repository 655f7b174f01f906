package termvec

import "strings"

// CountContained returns how many of the given terms occur as substrings of
// text (case-insensitive).
func CountContained(text string, terms []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

// MatchesHalf reports whether text contains at least half of the given
// terms, with a minimum requirement of one. No terms means no match.
func MatchesHalf(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	required := len(terms) / 2
	if required < 1 {
		required = 1
	}
	return CountContained(text, terms) >= required
}
