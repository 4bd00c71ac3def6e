// Package classify assigns spending categories to transaction descriptions.
// Resolution is three-tiered: a keyword rule table, corpus similarity over a
// term-weighted index, and a fixed default. The classifier is an immutable
// value; retraining produces a new classifier instead of mutating shared
// state, so concurrent statement runs never need locks.
package classify

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// DefaultCategory is assigned when no tier produces a match.
const DefaultCategory = "Miscellaneous"

// CategoryKeywords pairs a category name with its keyword list. Order inside
// a Corpus matters: the first category with a matching keyword wins tier 1.
type CategoryKeywords struct {
	Category string
	Keywords []string
}

// Corpus is the read-mostly mapping from category to keywords that backs
// every tier. Treat it as immutable once a classifier is built from it.
type Corpus []CategoryKeywords

// maxKeywordsPerCategory bounds corpus growth from training. Oldest keywords
// are evicted first once a category reaches the cap.
const maxKeywordsPerCategory = 64

// DefaultCorpus returns the built-in category table. Income leads so that
// deposit/refund descriptions are never claimed by an expense category.
func DefaultCorpus() Corpus {
	return Corpus{
		{Category: "Income", Keywords: []string{
			"deposit", "salary", "payroll", "interest", "refund",
		}},
		{Category: "Housing", Keywords: []string{
			"rent", "mortgage", "apartment", "lease", "landlord",
		}},
		{Category: "Utilities", Keywords: []string{
			"utility", "electric", "water", "gas bill", "internet",
			"phone", "cable", "insurance", "bill payment",
		}},
		{Category: "Groceries", Keywords: []string{
			"grocery", "supermarket", "food basics", "walmart", "costco", "wholesale",
		}},
		{Category: "Dining", Keywords: []string{
			"restaurant", "cafe", "coffee", "dining", "takeout", "delivery", "food",
		}},
		{Category: "Transportation", Keywords: []string{
			"fuel", "transit", "uber", "lyft", "taxi", "parking", "toll", "gas",
		}},
		{Category: "Shopping", Keywords: []string{
			"store", "shop", "retail", "amazon", "online", "purchase",
		}},
		{Category: "Entertainment", Keywords: []string{
			"movie", "netflix", "spotify", "subscription", "entertainment", "game",
		}},
		{Category: "Health", Keywords: []string{
			"pharmacy", "medical", "dental", "doctor", "hospital", "health",
		}},
		{Category: "Cash Withdrawal", Keywords: []string{
			"atm", "withdrawal", "cash",
		}},
	}
}

// clone deep-copies the corpus so training never aliases the original.
func (c Corpus) clone() Corpus {
	out := make(Corpus, len(c))
	for i, ck := range c {
		out[i] = CategoryKeywords{
			Category: ck.Category,
			Keywords: append([]string(nil), ck.Keywords...),
		}
	}
	return out
}

// compact deduplicates keywords and enforces the per-category bound,
// keeping the most recently added keywords.
func (c Corpus) compact() Corpus {
	out := make(Corpus, len(c))
	for i, ck := range c {
		seen := make(map[string]struct{}, len(ck.Keywords))
		kept := make([]string, 0, len(ck.Keywords))
		for _, kw := range ck.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			kept = append(kept, kw)
		}
		if len(kept) > maxKeywordsPerCategory {
			kept = kept[len(kept)-maxKeywordsPerCategory:]
		}
		out[i] = CategoryKeywords{Category: ck.Category, Keywords: kept}
	}
	return out
}

// tokenize splits a description into lower-cased alphanumeric tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// preprocess lowercases, tokenizes, drops stopwords and short tokens, and
// stems what remains. Shared by the similarity tier and user-keyword scoring.
func preprocess(s string) []string {
	tokens := tokenize(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 || isStopword(tok) {
			continue
		}
		out = append(out, english.Stem(tok, false))
	}
	return out
}

// significantTokens extracts training keywords from a description: longer
// than three characters and not a stopword, kept unstemmed so they remain
// usable as substring rules.
func significantTokens(s string) []string {
	tokens := tokenize(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 3 || isStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "after", "all", "also", "am", "an", "and", "any", "are",
		"as", "at", "be", "because", "been", "but", "by", "can", "come",
		"could", "did", "do", "for", "from", "get", "had", "has", "have",
		"he", "her", "him", "his", "how", "i", "if", "in", "into", "is",
		"it", "its", "just", "like", "make", "me", "my", "no", "not", "now",
		"of", "on", "one", "only", "or", "other", "our", "out", "over",
		"she", "so", "some", "than", "that", "the", "their", "them", "then",
		"there", "these", "they", "this", "to", "up", "us", "was", "way",
		"we", "what", "when", "which", "who", "will", "with", "would",
		"you", "your",
	} {
		stopwords[w] = struct{}{}
	}
}

func isStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}
