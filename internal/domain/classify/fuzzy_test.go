package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name        string
		description string
		keyword     string
		min, max    int
	}{
		{"exact", "netflix", "netflix", 100, 100},
		{"keyword inside description", "netflix monthly", "netflix", 76, 99},
		{"description inside keyword", "restauran", "restaurant", 76, 99},
		{"close misspelling", "grocerry", "grocery", 50, 99},
		{"unrelated", "xylophone", "taxi", 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := fuzzyScore(tt.description, tt.keyword)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("coffee", "coffee"))
	assert.Equal(t, 1, levenshtein("coffee", "coffe"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 5, levenshtein("", "pizza"))
}

func TestSuggest(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("ranked and limited", func(t *testing.T) {
		suggestions := c.Suggest("restauran", 3)
		require.NotEmpty(t, suggestions)
		assert.LessOrEqual(t, len(suggestions), 3)
		assert.Equal(t, "Dining", suggestions[0].Category)
		for i := 1; i < len(suggestions); i++ {
			assert.GreaterOrEqual(t, suggestions[i-1].Score, suggestions[i].Score)
		}
	})

	t.Run("empty description", func(t *testing.T) {
		assert.Nil(t, c.Suggest("", 3))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Nil(t, c.Suggest("coffee", 0))
	})
}
