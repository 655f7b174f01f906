package termvec

// stopWords is the fixed English function-word set excluded from the
// vocabulary and from significant-term extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"is": {}, "am": {}, "are": {}, "was": {}, "were": {},
}

// IsStopWord reports whether term is in the fixed stop-word set.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}

// SignificantTerms extracts query terms usable as standalone search probes:
// longer than minLen characters and not stop words. Order of first
// occurrence is preserved; duplicates are dropped.
func SignificantTerms(query string, minLen int) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range Tokenize(query) {
		if len(tok) <= minLen || IsStopWord(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}
