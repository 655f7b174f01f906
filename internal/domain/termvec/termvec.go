// Package termvec implements the request-scoped vector-space scorer:
// vocabulary construction, sparse term-frequency vectors, and cosine
// similarity ranking.
package termvec

import (
	"math"
	"sort"
	"strings"
)

// Vector is a sparse normalized term-frequency vector. Weights is nil or
// empty when the source text matched no vocabulary term, in which case
// Magnitude is 0 and the vector is excluded from ranking.
type Vector struct {
	Weights   map[string]float64 `json:"weights"`
	Magnitude float64            `json:"magnitude"`
}

// IsZero reports whether the vector matched no vocabulary term.
func (v Vector) IsZero() bool {
	return v.Magnitude == 0 || len(v.Weights) == 0
}

// Vocabulary maps a term to its request-scoped index. A Vocabulary is built
// per request from the query and the candidate set and is never shared
// across requests.
type Vocabulary struct {
	index map[string]int
}

// BuildVocabulary collects terms from the query and all candidate texts,
// excluding stop words and terms of length <= 2.
func BuildVocabulary(query string, texts []string) Vocabulary {
	all := make(map[string]struct{})
	for _, tok := range Tokenize(query) {
		all[tok] = struct{}{}
	}
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			all[tok] = struct{}{}
		}
	}

	index := make(map[string]int, len(all))
	i := 0
	for term := range all {
		if len(term) <= 2 || IsStopWord(term) {
			continue
		}
		index[term] = i
		i++
	}
	return Vocabulary{index: index}
}

// Size returns the number of vocabulary terms.
func (v Vocabulary) Size() int { return len(v.index) }

// Contains reports whether term is part of the vocabulary.
func (v Vocabulary) Contains(term string) bool {
	_, ok := v.index[term]
	return ok
}

// Vectorize converts text to a term-frequency vector over the vocabulary.
// Weights are occurrence counts normalized by the total number of matched
// occurrences, so they sum to 1 for any non-zero vector.
func (v Vocabulary) Vectorize(text string) Vector {
	counts := make(map[string]int)
	total := 0
	for _, tok := range Tokenize(text) {
		if _, ok := v.index[tok]; ok {
			counts[tok]++
			total++
		}
	}
	if total == 0 {
		return Vector{}
	}

	weights := make(map[string]float64, len(counts))
	sumSquares := 0.0
	for term, n := range counts {
		w := float64(n) / float64(total)
		weights[term] = w
		sumSquares += w * w
	}
	return Vector{Weights: weights, Magnitude: math.Sqrt(sumSquares)}
}

// Cosine computes the cosine similarity of two vectors in [0, 1].
// Similarity against a zero vector is 0, not an error.
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	// Iterate the smaller map.
	small, large := a.Weights, b.Weights
	if len(large) < len(small) {
		small, large = large, small
	}
	dot := 0.0
	for term, w := range small {
		if w2, ok := large[term]; ok {
			dot += w * w2
		}
	}
	return dot / (a.Magnitude * b.Magnitude)
}

// Ranked pairs an index into the caller's candidate slice with its
// similarity to the query vector.
type Ranked struct {
	Index      int
	Similarity float64
}

// Rank filters zero-magnitude candidates and orders the rest by descending
// cosine similarity to query. Ties keep their prior order (stable sort).
func Rank(query Vector, candidates []Vector) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for i, c := range candidates {
		if c.IsZero() {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Similarity: Cosine(query, c)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

// Tokenize lowercases text, strips everything outside [a-z0-9\s], and splits
// on whitespace. Empty tokens are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
