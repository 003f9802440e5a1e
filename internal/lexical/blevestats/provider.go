// Package blevestats provides term-frequency statistics through ephemeral
// in-memory bleve indexes, one per analyzed document. It implements the
// lexical-statistics contract consumed by the document-side sparse
// generator.
package blevestats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bleve "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/usecase/sparsegen"
)

// Provider opens ephemeral single-document analysis indexes.
type Provider struct {
	logger *zap.Logger
}

// New creates a bleve-backed term-statistics provider.
func New(logger *zap.Logger) *Provider {
	return &Provider{logger: logger}
}

// OpenIndex creates an in-memory index named for diagnostics only. The
// returned handle must be deleted by the caller on every exit path.
func (p *Provider) OpenIndex(_ context.Context, name string, settings sparsegen.IndexSettings) (sparsegen.TermIndex, error) {
	im, err := newIndexMapping()
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", name, err)
	}

	return &termIndex{
		name:     name,
		index:    idx,
		mapping:  im,
		settings: settings,
		logger:   p.logger,
	}, nil
}

// termIndex is a single-document term-statistics index.
type termIndex struct {
	name     string
	index    bleve.Index
	mapping  *mapping.IndexMappingImpl
	settings sparsegen.IndexSettings

	mu      sync.Mutex
	text    string
	indexed bool
	closed  bool

	logger *zap.Logger
}

// Index analyzes and stores the document text.
func (t *termIndex) Index(_ context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.New("term index already deleted")
	}
	if err := t.index.Index(t.name, map[string]interface{}{contentField: text}); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	t.text = text
	t.indexed = true
	return nil
}

// TermVectors returns per-term frequency statistics for the indexed
// document. The index holds exactly one document, so document frequency is
// 1 for every term present.
func (t *termIndex) TermVectors(_ context.Context) (sparsegen.TermVectors, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return sparsegen.TermVectors{}, errors.New("term index already deleted")
	}
	if !t.indexed {
		return sparsegen.TermVectors{}, errors.New("no document indexed")
	}

	analyzer := t.mapping.AnalyzerNamed(analyzerName)
	if analyzer == nil {
		return sparsegen.TermVectors{}, errors.New("analyzer not registered")
	}

	stream := analyzer.Analyze([]byte(t.text))

	freq := make(map[string]int, len(stream))
	var docLength int
	for _, tok := range stream {
		term := string(tok.Term)
		if len(term) < t.settings.MinWordLength {
			continue
		}
		freq[term]++
		docLength++
	}

	terms := make([]sparsegen.TermStat, 0, len(freq))
	for term, tf := range freq {
		if tf < t.settings.MinTermFreq {
			continue
		}
		terms = append(terms, sparsegen.TermStat{Term: term, TermFreq: tf, DocFreq: 1})
		if t.settings.MaxNumTerms > 0 && len(terms) >= t.settings.MaxNumTerms {
			break
		}
	}

	return sparsegen.TermVectors{Terms: terms, DocLength: docLength}, nil
}

// Delete closes the in-memory index, releasing its segments.
func (t *termIndex) Delete(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.index.Close(); err != nil {
		return fmt.Errorf("close index %s: %w", t.name, err)
	}
	return nil
}
