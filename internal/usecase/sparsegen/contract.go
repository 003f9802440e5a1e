package sparsegen

import "context"

// TermStat is one term's frequency statistics as reported by the lexical
// analysis provider.
type TermStat struct {
	Term     string
	TermFreq int
	DocFreq  int
}

// TermVectors is the statistics payload for a single indexed document.
type TermVectors struct {
	Terms     []TermStat
	DocLength int // total token occurrences in the analyzed field
}

// IndexSettings bounds the term-statistics extraction and configures the
// provider's BM25 similarity.
type IndexSettings struct {
	MaxNumTerms   int
	MinTermFreq   int
	MinDocFreq    int
	MaxDocFreq    int
	MinWordLength int
	BM25K1        float64
	BM25B         float64
}

// DefaultIndexSettings mirrors the lexical service configuration used for
// content indexing.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{
		MaxNumTerms:   32000,
		MinTermFreq:   1,
		MinDocFreq:    1,
		MaxDocFreq:    1_000_000,
		MinWordLength: 2,
		BM25K1:        1.2,
		BM25B:         0.75,
	}
}

// TermIndex is an ephemeral single-document analysis index. Delete must run
// on every exit path; a leaked index is a resource leak on the provider.
type TermIndex interface {
	Index(ctx context.Context, text string) error
	TermVectors(ctx context.Context) (TermVectors, error)
	Delete(ctx context.Context) error
}

// Provider opens ephemeral term-statistics indexes on the lexical service.
type Provider interface {
	OpenIndex(ctx context.Context, name string, settings IndexSettings) (TermIndex, error)
}
