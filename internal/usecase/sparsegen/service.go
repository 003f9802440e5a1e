package sparsegen

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/domain"
)

// classificationRepeat biases term statistics toward the document's
// classification labels by repeating them in the analyzed text. A weighting
// hack in lieu of separate metadata fields in the lexical index.
const classificationRepeat = 3

// fallbackTermLimit caps the positional fallback for degenerate text.
const fallbackTermLimit = 10

var indexSeq atomic.Uint64

// Service generates BM25-statistics sparse vectors for documents at
// indexing time. Provider failures degrade to a fallback vector so
// indexing pipelines stay available with a weaker lexical signal.
type Service struct {
	provider     Provider
	settings     IndexSettings
	featureSpace int
	logger       *zap.Logger
}

// New creates a document-side sparse generator.
func New(provider Provider, featureSpace int, logger *zap.Logger) *Service {
	if featureSpace <= 0 {
		featureSpace = domain.DefaultFeatureSpace
	}
	return &Service{
		provider:     provider,
		settings:     DefaultIndexSettings(),
		featureSpace: featureSpace,
		logger:       logger,
	}
}

// SparseFromStatistics builds a sparse vector from the document text and
// its classification labels. Never fails: on any provider error it returns
// the single-element fallback vector and logs the cause.
func (s *Service) SparseFromStatistics(ctx context.Context, text, docType, category, subCategory string) domain.SparseVector {
	combined := combineText(text, docType, category, subCategory)

	name := fmt.Sprintf("termstats-%d", indexSeq.Add(1))
	idx, err := s.provider.OpenIndex(ctx, name, s.settings)
	if err != nil {
		s.logger.Warn("Failed to open term-statistics index", zap.String("index", name), zap.Error(err))
		return errorFallbackVector()
	}
	defer func() {
		if err := idx.Delete(ctx); err != nil {
			s.logger.Warn("Failed to delete term-statistics index", zap.String("index", name), zap.Error(err))
		}
	}()

	if err := idx.Index(ctx, combined); err != nil {
		s.logger.Warn("Failed to index document for term statistics", zap.String("index", name), zap.Error(err))
		return errorFallbackVector()
	}

	tv, err := idx.TermVectors(ctx)
	if err != nil {
		s.logger.Warn("Failed to extract term vectors", zap.String("index", name), zap.Error(err))
		return errorFallbackVector()
	}

	scored := s.scoreTerms(tv)
	if len(scored) == 0 {
		return degenerateFallbackVector(combined)
	}

	normalizeByMax(scored)
	return s.toSparseVector(scored)
}

type scoredTerm struct {
	term  string
	score float64
}

// scoreTerms computes a BM25-style salience score per term, treating the
// single document as its own corpus: totalDocs=1 and avgDocLength equal to
// the document length. With docFreq=1 the idf is a small positive constant,
// so the score mostly reflects frequency saturation within the document.
func (s *Service) scoreTerms(tv TermVectors) []scoredTerm {
	const totalDocs = 1.0
	docLength := float64(tv.DocLength)
	avgDocLength := docLength
	k1, b := s.settings.BM25K1, s.settings.BM25B

	scored := make([]scoredTerm, 0, len(tv.Terms))
	for _, t := range tv.Terms {
		tf := float64(t.TermFreq)
		df := float64(t.DocFreq)

		idf := math.Log(1 + (totalDocs-df+0.5)/(df+0.5))

		var lengthNorm float64 = 1
		if avgDocLength > 0 {
			lengthNorm = 1 - b + b*(docLength/avgDocLength)
		}
		score := idf * (tf * (k1 + 1)) / (tf + k1*lengthNorm)

		if score > 0 {
			scored = append(scored, scoredTerm{term: t.Term, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) > s.settings.MaxNumTerms {
		scored = scored[:s.settings.MaxNumTerms]
	}
	return scored
}

// toSparseVector hashes each surviving term by its text, using the same
// scheme as query-time hashing so query and document vectors stay
// comparable. Collisions accumulate.
func (s *Service) toSparseVector(scored []scoredTerm) domain.SparseVector {
	weights := make(map[uint32]float64, len(scored))
	for _, st := range scored {
		weights[domain.HashFeature(st.term, s.featureSpace)] += st.score
	}

	vec := domain.SparseVector{
		Indices: make([]uint32, 0, len(weights)),
		Values:  make([]float64, 0, len(weights)),
	}
	for idx := range weights {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Slice(vec.Indices, func(i, j int) bool { return vec.Indices[i] < vec.Indices[j] })
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, weights[idx])
	}
	return vec
}

func normalizeByMax(scored []scoredTerm) {
	var maxScore float64
	for _, st := range scored {
		if st.score > maxScore {
			maxScore = st.score
		}
	}
	if maxScore == 0 {
		return
	}
	for i := range scored {
		scored[i].score /= maxScore
	}
}

// combineText appends the classification labels, each repeated, after the
// content text.
func combineText(text, docType, category, subCategory string) string {
	labels := strings.TrimSpace(strings.Join([]string{docType, category, subCategory}, " "))
	if labels == "" {
		return text
	}
	parts := []string{text}
	for i := 0; i < classificationRepeat; i++ {
		parts = append(parts, labels)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// degenerateFallbackVector assigns the first raw terms weight 1.0 at
// positional indices, guaranteeing a non-empty vector for degenerate text.
func degenerateFallbackVector(combined string) domain.SparseVector {
	raw := strings.Fields(combined)
	if len(raw) == 0 {
		return errorFallbackVector()
	}
	if len(raw) > fallbackTermLimit {
		raw = raw[:fallbackTermLimit]
	}

	vec := domain.SparseVector{
		Indices: make([]uint32, len(raw)),
		Values:  make([]float64, len(raw)),
	}
	for i := range raw {
		vec.Indices[i] = uint32(i)
		vec.Values[i] = 1.0
	}
	return vec
}

// errorFallbackVector is the degraded-signal default returned on provider
// failures.
func errorFallbackVector() domain.SparseVector {
	return domain.SparseVector{Indices: []uint32{0}, Values: []float64{1}}
}
