package classify

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Method names reported alongside every classification result.
const (
	MethodKeyword      = "keyword-match"
	MethodSimilarity   = "tfidf"
	MethodUserKeywords = "user-keywords"
	MethodDefault      = "default"
)

// userCategoryThreshold is the minimum stem-overlap score a user category
// must reach before it beats the default fallback.
const userCategoryThreshold = 0.3

// similarityFloor is the minimum normalized tier-2 similarity that counts
// as a match.
const similarityFloor = 0.1

// Result is the outcome of classifying one transaction description.
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// UserCategory is a caller-supplied category with its own keyword list,
// consulted before the built-in corpus.
type UserCategory struct {
	Name     string
	Keywords []string
}

// Example is one approved categorization used for training.
type Example struct {
	Description string
	Category    string
}

// Classifier resolves a category for a description. It is immutable: Train
// and Compact return new classifiers and the receiver is safe for
// concurrent use without synchronization.
type Classifier struct {
	corpus Corpus
	engine *keywordEngine
	index  *similarityIndex
}

// New builds a classifier from the given corpus.
func New(corpus Corpus) (*Classifier, error) {
	corpus = corpus.clone()
	index, err := newSimilarityIndex(corpus)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		corpus: corpus,
		engine: newKeywordEngine(corpus),
		index:  index,
	}, nil
}

// Corpus returns a copy of the classifier's corpus.
func (c *Classifier) Corpus() Corpus {
	return c.corpus.clone()
}

// Classify resolves a category for a description through three tiers:
// keyword rules at 0.8, corpus similarity rescaled into [0.5, 0.9), and
// the default category at 0.5. Amount is accepted for signature parity
// with user-category classification; it does not influence the category.
func (c *Classifier) Classify(description string, _ decimal.Decimal) Result {
	if category, _, ok := c.engine.match(description); ok {
		return Result{Category: category, Confidence: 0.8, Method: MethodKeyword}
	}

	if category, similarity, ok := c.index.bestMatch(description); ok && similarity >= similarityFloor {
		return Result{
			Category:   category,
			Confidence: 0.5 + 0.4*similarity,
			Method:     MethodSimilarity,
		}
	}

	return Result{Category: DefaultCategory, Confidence: 0.5, Method: MethodDefault}
}

// ClassifyWithCategories scores the description against the caller's own
// categories by stem overlap. Keywords go through the same preprocessing
// as descriptions, so a keyword of one or two characters, or one that is
// a stopword, never contributes to the score. If no user category clears
// the threshold the
// built-in keyword rules decide, at reduced confidence; with no user
// categories at all the fallback confidence is slightly higher because
// nothing contradicted it.
func (c *Classifier) ClassifyWithCategories(description string, _ decimal.Decimal, categories []UserCategory) Result {
	if len(categories) == 0 {
		return c.fallback(description, 0.7)
	}

	stems := preprocess(description)
	bestScore := 0.0
	bestCategory := ""
	for _, uc := range categories {
		if len(uc.Keywords) == 0 {
			continue
		}
		matched := 0
		for _, kw := range uc.Keywords {
			keywordStems := preprocess(kw)
			for _, stem := range stems {
				if containsString(keywordStems, stem) {
					matched++
				}
			}
		}
		score := float64(matched) / float64(len(uc.Keywords))
		if score > bestScore {
			bestScore = score
			bestCategory = uc.Name
		}
	}

	if bestScore < userCategoryThreshold {
		return c.fallback(description, 0.6)
	}
	// Repeated stems can push the raw overlap past 1; confidence stays
	// in [0,1].
	if bestScore > 1 {
		bestScore = 1
	}
	return Result{Category: bestCategory, Confidence: bestScore, Method: MethodUserKeywords}
}

// fallback consults the built-in keyword rules but always reports the
// default method and the given confidence.
func (c *Classifier) fallback(description string, confidence float64) Result {
	category := DefaultCategory
	if matched, _, ok := c.engine.match(description); ok {
		category = matched
	}
	return Result{Category: category, Confidence: confidence, Method: MethodDefault}
}

// Suggest returns up to limit fuzzy-ranked category alternatives for the
// description.
func (c *Classifier) Suggest(description string, limit int) []Suggestion {
	return suggest(c.corpus, description, limit)
}

// Train folds approved categorizations into the corpus and returns a new
// classifier. Significant description tokens are appended to the approved
// category's keyword list; unknown categories are added at the end of the
// corpus. Each list stays within the keyword bound, evicting oldest first.
// The receiver is never modified.
func (c *Classifier) Train(examples []Example) (*Classifier, error) {
	corpus := c.corpus.clone()
	for _, ex := range examples {
		if ex.Category == "" {
			continue
		}
		tokens := significantTokens(ex.Description)
		if len(tokens) == 0 {
			continue
		}

		pos := -1
		for i := range corpus {
			if corpus[i].Category == ex.Category {
				pos = i
				break
			}
		}
		if pos == -1 {
			corpus = append(corpus, CategoryKeywords{Category: ex.Category})
			pos = len(corpus) - 1
		}

		for _, tok := range tokens {
			if !containsString(corpus[pos].Keywords, tok) {
				corpus[pos].Keywords = append(corpus[pos].Keywords, tok)
			}
		}
		if n := len(corpus[pos].Keywords); n > maxKeywordsPerCategory {
			corpus[pos].Keywords = corpus[pos].Keywords[n-maxKeywordsPerCategory:]
		}
	}
	return New(corpus)
}

// Compact returns a new classifier with a deduplicated, bounded corpus.
func (c *Classifier) Compact() (*Classifier, error) {
	return New(c.corpus.compact())
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Store is an atomic holder for the current classifier. Classification
// reads take the pointer once, so a concurrent Replace never tears an
// in-flight statement run.
type Store struct {
	mu      sync.RWMutex
	current *Classifier
}

// NewStore wraps an initial classifier.
func NewStore(c *Classifier) *Store {
	return &Store{current: c}
}

// Current returns the classifier in effect right now.
func (s *Store) Current() *Classifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new classifier.
func (s *Store) Replace(c *Classifier) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

// Train builds a trained classifier from the current one and installs it.
func (s *Store) Train(examples []Example) error {
	trained, err := s.Current().Train(examples)
	if err != nil {
		return err
	}
	s.Replace(trained)
	return nil
}

// Compact rebuilds the current classifier with a compacted corpus and
// installs it.
func (s *Store) Compact() error {
	compacted, err := s.Current().Compact()
	if err != nil {
		return err
	}
	s.Replace(compacted)
	return nil
}

// Classify delegates to the current classifier, letting the store satisfy
// the same contract as a bare classifier.
func (s *Store) Classify(description string, amount decimal.Decimal) Result {
	return s.Current().Classify(description, amount)
}
