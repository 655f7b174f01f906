package domain

import "strings"

// Answer is the final result of one query: the answer text and how many
// posts were ultimately considered. Degraded outcomes are expressed as
// normal answers with PostsFound == 0, never as errors.
type Answer struct {
	Text       string `json:"answer"`
	PostsFound int    `json:"postsFound"`
}

// User-visible messages for degraded outcomes.
const (
	// MsgNoDiscussions is returned when every search strategy came back empty.
	MsgNoDiscussions = "I couldn't find relevant discussions. Try a different subreddit or try searching r/learnprogramming or r/programming directly."

	// MsgInterrupted is returned when the pre-search pacing wait is cancelled.
	MsgInterrupted = "The search was interrupted. Please try again."

	// MsgInternalError is returned when the pipeline fails unexpectedly.
	MsgInternalError = "Sorry, I encountered an error while processing your query. Please try again."

	// MsgNoConsensus is returned by the extractive fallback when no post has
	// a usable excerpt.
	MsgNoConsensus = "I found some discussions but couldn't extract a clear consensus. Try rephrasing your question."

	// FallbackPrefix opens every extractive (non-generative) answer.
	FallbackPrefix = "Based on Reddit discussions about this topic:"
)

// generationFailureSentinels are substrings that mark an LLM response as
// unusable even though the call itself succeeded.
var generationFailureSentinels = []string{
	"quota exceeded",
	"resource has been exhausted",
	"i couldn't generate",
	"couldn't connect to the ai service",
}

// IsGenerationFailure reports whether a generated answer should be discarded
// in favor of the extractive fallback.
func IsGenerationFailure(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, s := range generationFailureSentinels {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
