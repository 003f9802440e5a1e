// Package retrieval executes hybrid searches across namespace-partitioned
// vector indexes and reranks the candidates with the query classification.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/metrics"
)

// Service is the namespace search executor.
type Service struct {
	vectorizer HybridBuilder
	index      VectorIndex
	logger     *zap.Logger
	topK       int
	fanOutTopK int
}

// New creates a search executor.
func New(vectorizer HybridBuilder, index VectorIndex, logger *zap.Logger) *Service {
	return &Service{
		vectorizer: vectorizer,
		index:      index,
		logger:     logger,
		topK:       domain.DefaultTopK,
		fanOutTopK: domain.FanOutTopK,
	}
}

// WithTopK overrides the per-namespace result limits. Zero keeps the default.
func (s *Service) WithTopK(topK, fanOutTopK int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	if fanOutTopK > 0 {
		s.fanOutTopK = fanOutTopK
	}
	return s
}

// PerformSearch routes a prebuilt hybrid query to the right namespaces and
// returns reranked candidates.
//
// Standard mode queries the single namespace derived from the
// classification's interaction type. Fallback mode (useAllNamespaces) fans
// out across the fixed interaction-type set and tolerates per-namespace
// failures. A nil classification degrades to raw-score ordering.
func (s *Service) PerformSearch(
	ctx context.Context,
	website, query string,
	q domain.HybridQuery,
	classification *domain.Classification,
	useAllNamespaces bool,
) ([]domain.RerankedCandidate, error) {
	var (
		candidates []domain.Candidate
		err        error
		mode       = "single"
	)
	if useAllNamespaces {
		mode = "fanout"
		candidates = s.searchAll(ctx, website, q)
	} else {
		candidates, err = s.searchOne(ctx, website, query, q, classification)
		if err != nil {
			return nil, err
		}
	}

	ranked := Rerank(candidates, classification, query)
	metrics.SearchCandidatesReturned.WithLabelValues(mode).Observe(float64(len(ranked)))
	return ranked, nil
}

// searchOne queries the namespace the classification routes to, merging in
// the auxiliary collection query when the classified type asks for one.
// Candidates are deduplicated by natural key, first occurrence wins.
func (s *Service) searchOne(
	ctx context.Context,
	website, query string,
	q domain.HybridQuery,
	classification *domain.Classification,
) ([]domain.Candidate, error) {
	namespace := classification.Namespace(website)
	interaction := classification.Interaction()

	candidates, err := s.queryNamespace(ctx, namespace, interaction, q, s.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("search namespace %s: %w", namespace, err)
	}

	if classification != nil && classification.Type == domain.TypeCollection {
		candidates = append(candidates, s.collectionMatches(ctx, namespace, interaction, query)...)
	}

	return dedupeByNaturalKey(candidates), nil
}

// collectionMatches re-embeds "collection <query>" through the full hybrid
// pipeline and queries for collection and product documents only. Failures
// degrade to the primary matches rather than aborting the search.
func (s *Service) collectionMatches(ctx context.Context, namespace, interaction, query string) []domain.Candidate {
	aux, err := s.vectorizer.BuildHybridQueryVectors(ctx, "collection "+query)
	if err != nil {
		s.logger.Warn("Failed to build auxiliary collection query",
			zap.String("namespace", namespace), zap.Error(err))
		return nil
	}

	types := []string{domain.TypeCollection, domain.TypeProduct}
	candidates, err := s.queryNamespace(ctx, namespace, interaction, aux, s.topK, types)
	if err != nil {
		s.logger.Warn("Failed to run auxiliary collection query",
			zap.String("namespace", namespace), zap.Error(err))
		return nil
	}
	return candidates
}

// searchAll fans out concurrently across the fallback interaction-type
// namespaces. A failing namespace is logged and skipped; it never aborts
// the siblings. Results keep the fixed namespace order and are deduplicated
// by document ID.
func (s *Service) searchAll(ctx context.Context, website string, q domain.HybridQuery) []domain.Candidate {
	interactions := domain.FallbackInteractionTypes()
	results := make([][]domain.Candidate, len(interactions))

	g, gctx := errgroup.WithContext(ctx)
	for i, interaction := range interactions {
		i, interaction := i, interaction
		namespace := domain.NamespaceFor(website, interaction)
		g.Go(func() error {
			candidates, err := s.queryNamespace(gctx, namespace, interaction, q, s.fanOutTopK, nil)
			if err != nil {
				s.logger.Warn("Failed to search namespace during fan-out",
					zap.String("namespace", namespace), zap.Error(err))
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var merged []domain.Candidate
	for _, r := range results {
		merged = append(merged, r...)
	}
	return dedupeByID(merged)
}

// queryNamespace treats an unknown namespace as zero results: namespaces
// are strict partitions, and an unpopulated one is not an error.
func (s *Service) queryNamespace(
	ctx context.Context, namespace, interaction string, q domain.HybridQuery, topK int, types []string,
) ([]domain.Candidate, error) {
	candidates, err := s.index.Query(ctx, namespace, q, topK, types)
	if err != nil {
		if errors.Is(err, domain.ErrNamespaceNotFound) {
			metrics.SearchNamespaceQueriesTotal.WithLabelValues(interaction, "not_found").Inc()
			s.logger.Debug("Namespace not populated", zap.String("namespace", namespace))
			return nil, nil
		}
		metrics.SearchNamespaceQueriesTotal.WithLabelValues(interaction, "error").Inc()
		return nil, err
	}
	metrics.SearchNamespaceQueriesTotal.WithLabelValues(interaction, "success").Inc()
	return candidates, nil
}

// dedupeByID keeps the first occurrence of each document ID. Idempotent.
func dedupeByID(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.ID != "" && seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// dedupeByNaturalKey keeps the first occurrence of each natural key
// (handle, question or title). Candidates with no natural key are always
// kept. Idempotent.
func dedupeByNaturalKey(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0:0]
	for _, c := range candidates {
		key := c.Metadata.NaturalKey()
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
