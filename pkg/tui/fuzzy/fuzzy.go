// ABOUTME: Fuzzy filtering for dropdown option lists over sahilm/fuzzy
// ABOUTME: Pattern and items are NFC-normalized so decomposed input still matches

package fuzzy

import (
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// Match is one ranked result.
type Match struct {
	Str            string
	Index          int
	MatchedIndexes []int
	Score          int
}

type normalized []string

func (n normalized) String(i int) string { return n[i] }
func (n normalized) Len() int            { return len(n) }

// Find ranks items against pattern, best first. Str is the original item.
func Find(pattern string, items []string) []Match {
	src := make(normalized, len(items))
	for i, it := range items {
		src[i] = norm.NFC.String(it)
	}
	results := fuzzy.FindFrom(norm.NFC.String(pattern), src)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Str:            items[r.Index],
			Index:          r.Index,
			MatchedIndexes: r.MatchedIndexes,
			Score:          r.Score,
		}
	}
	return matches
}

// Filter returns the indexes of items to show for pattern: every item in
// order for an empty pattern, otherwise the ranked matches.
func Filter(pattern string, items []string) []int {
	if pattern == "" {
		out := make([]int, len(items))
		for i := range items {
			out[i] = i
		}
		return out
	}
	matches := Find(pattern, items)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
