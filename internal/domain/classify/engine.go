package classify

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// keywordEngine is the tier-1 rule matcher. All corpus keywords are compiled
// into a single Aho-Corasick automaton so a description is scanned once
// regardless of corpus size.
type keywordEngine struct {
	matcher *ahocorasick.Matcher
	entries []keywordEntry
}

type keywordEntry struct {
	category string
	order    int
	keyword  string
}

func newKeywordEngine(corpus Corpus) *keywordEngine {
	e := &keywordEngine{}
	var patterns [][]byte
	for i, ck := range corpus {
		for _, kw := range ck.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			patterns = append(patterns, []byte(kw))
			e.entries = append(e.entries, keywordEntry{
				category: ck.Category,
				order:    i,
				keyword:  kw,
			})
		}
	}
	if len(patterns) > 0 {
		e.matcher = ahocorasick.NewMatcher(patterns)
	}
	return e
}

// match returns the category of the matched keyword whose category appears
// earliest in the corpus. Later matches never override earlier categories,
// keeping results independent of automaton hit order.
func (e *keywordEngine) match(description string) (category, keyword string, ok bool) {
	if e.matcher == nil || description == "" {
		return "", "", false
	}
	hits := e.matcher.Match([]byte(strings.ToLower(description)))
	if len(hits) == 0 {
		return "", "", false
	}
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.entries) {
			continue
		}
		if best == -1 || e.entries[idx].order < e.entries[best].order {
			best = idx
		}
	}
	if best == -1 {
		return "", "", false
	}
	return e.entries[best].category, e.entries[best].keyword, true
}
