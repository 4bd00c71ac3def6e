package classify

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion is a fuzzy-ranked category alternative for a description.
type Suggestion struct {
	Category string
	Score    int
	Keyword  string
}

// suggest ranks every corpus category by the best fuzzy score between the
// description and any of the category's keywords. Ties break on corpus
// order so results stay deterministic.
func suggest(corpus Corpus, description string, limit int) []Suggestion {
	description = strings.ToLower(strings.TrimSpace(description))
	if description == "" || limit <= 0 {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(corpus))
	for _, ck := range corpus {
		best := Suggestion{Category: ck.Category}
		for _, kw := range ck.Keywords {
			if score := fuzzyScore(description, strings.ToLower(kw)); score > best.Score {
				best.Score = score
				best.Keyword = kw
			}
		}
		if best.Score > 0 {
			suggestions = append(suggestions, best)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// fuzzyScore rates keyword relevance on a 0-100 scale. Exact and
// containment matches outrank edit-distance matches, which outrank
// subsequence matches.
func fuzzyScore(description, keyword string) int {
	if description == keyword {
		return 100
	}

	if strings.Contains(description, keyword) {
		ratio := float64(len(keyword)) / float64(len(description))
		return 75 + int(25*ratio)
	}
	if strings.Contains(keyword, description) {
		ratio := float64(len(description)) / float64(len(keyword))
		return 75 + int(25*ratio)
	}

	maxLen := len(description)
	if len(keyword) > maxLen {
		maxLen = len(keyword)
	}
	if d := levenshtein(description, keyword); d <= maxLen/2 {
		return 100 * (maxLen - d) / maxLen
	}

	// Subsequence hits are weak evidence but still worth surfacing.
	if fuzzy.RankMatch(keyword, description) >= 0 {
		return 25
	}
	return 0
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
