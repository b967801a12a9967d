// ABOUTME: Tests for the fuzzy filter
// ABOUTME: Ranking, empty patterns and Unicode normalization

package fuzzy

import (
	"slices"
	"testing"
)

func TestFind_BasicMatch(t *testing.T) {
	t.Parallel()

	items := []string{"apple", "banana", "apricot"}
	matches := Find("apr", items)
	if len(matches) != 1 || matches[0].Str != "apricot" || matches[0].Index != 2 {
		t.Errorf("Find(apr) = %+v, want apricot at 2", matches)
	}
}

func TestFind_NoMatch(t *testing.T) {
	t.Parallel()

	if matches := Find("zzz", []string{"cat", "dog"}); len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestFind_DecomposedInput(t *testing.T) {
	t.Parallel()

	items := []string{"caf\u00e9", "cake"}
	matches := Find("cafe\u0301", items)
	if len(matches) != 1 || matches[0].Str != "caf\u00e9" {
		t.Errorf("Find(decomposed) = %+v, want the precomposed item", matches)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	items := []string{"top", "bottom", "left", "right"}
	if got := Filter("", items); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("Filter(\"\") = %v, want all", got)
	}
	if got := Filter("ght", items); !slices.Equal(got, []int{3}) {
		t.Errorf("Filter(ght) = %v, want [3]", got)
	}
}
