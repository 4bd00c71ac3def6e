package classify

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

// similarityIndex is the tier-2 fallback: an in-memory full-text index with
// one document per category, holding that category's keywords as a single
// text field. The English analyzer stems on both sides, so "dined" still
// reaches the "dining" keyword even though no substring matches.
type similarityIndex struct {
	index bleve.Index
}

type categoryDocument struct {
	Category string `json:"category"`
	Keywords string `json:"keywords"`
}

func newSimilarityIndex(corpus Corpus) (*similarityIndex, error) {
	indexMapping := bleve.NewIndexMapping()

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name

	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("category", categoryField)
	docMapping.AddFieldMappingsAt("keywords", keywordsField)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity index: %w", err)
	}

	batch := index.NewBatch()
	for _, ck := range corpus {
		doc := categoryDocument{
			Category: ck.Category,
			Keywords: strings.Join(ck.Keywords, " "),
		}
		if err := batch.Index(ck.Category, doc); err != nil {
			return nil, fmt.Errorf("failed to index category %q: %w", ck.Category, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to populate similarity index: %w", err)
	}

	return &similarityIndex{index: index}, nil
}

// bestMatch returns the closest category and a similarity in [0,1). Raw
// match scores are unbounded above, so they are squashed with s/(s+1)
// before callers apply the similarity floor.
func (si *similarityIndex) bestMatch(description string) (category string, similarity float64, ok bool) {
	if strings.TrimSpace(description) == "" {
		return "", 0, false
	}

	query := bleve.NewMatchQuery(description)
	query.SetField("keywords")

	request := bleve.NewSearchRequest(query)
	request.Size = 1

	result, err := si.index.Search(request)
	if err != nil || len(result.Hits) == 0 {
		return "", 0, false
	}

	hit := result.Hits[0]
	return hit.ID, hit.Score / (hit.Score + 1), true
}
