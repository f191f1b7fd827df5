// Package fuzzy scores free-text names with difflib's longest-matching-blocks ratio.
package fuzzy

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Normalize lowercases s and collapses every whitespace run into one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Ratio returns 2*M/T over the characters of the normalized inputs, where M
// is the number of matched characters and T the combined length. Identical
// inputs score 1.0, inputs with nothing in common score 0.
func Ratio(a, b string) float64 {
	return NewMatcher(a).Score(b)
}

// Matcher scores many candidates against one query, indexing the query once.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	query []string
	sm    *difflib.SequenceMatcher
}

func NewMatcher(query string) *Matcher {
	seq := chars(Normalize(query))
	sm := difflib.NewMatcher(nil, seq)
	return &Matcher{query: seq, sm: sm}
}

// Score returns the similarity between the query and candidate in [0, 1].
func (m *Matcher) Score(candidate string) float64 {
	seq := chars(Normalize(candidate))
	if len(seq) == 0 && len(m.query) == 0 {
		return 1
	}
	m.sm.SetSeq1(seq)
	return m.sm.Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
