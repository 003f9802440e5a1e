package blevestats

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/ngram"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	// analyzerName is the custom analyzer registered per ephemeral index.
	analyzerName = "lexical_stats"
	// ngramFilterName is the 3-4 character shingle filter.
	ngramFilterName = "ngram_3_4"
	// contentField is the single analyzed field.
	contentField = "content"
)

// newIndexMapping builds an index mapping with the content analysis chain:
// unicode tokenizer, lowercase, English stopwords, Porter stemming and a
// 3-4 character n-gram filter.
func newIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := mapping.NewIndexMapping()

	if err := im.AddCustomTokenFilter(ngramFilterName, map[string]interface{}{
		"type": ngram.Name,
		"min":  3.0,
		"max":  4.0,
	}); err != nil {
		return nil, fmt.Errorf("register ngram filter: %w", err)
	}

	if err := im.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []interface{}{
			lowercase.Name,
			en.StopName,
			porter.Name,
			ngramFilterName,
		},
	}); err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	field := mapping.NewTextFieldMapping()
	field.Analyzer = analyzerName
	field.Store = false
	field.IncludeTermVectors = true

	doc := mapping.NewDocumentMapping()
	doc.AddFieldMappingsAt(contentField, field)

	im.DefaultMapping = doc
	im.DefaultAnalyzer = analyzerName

	return im, nil
}
