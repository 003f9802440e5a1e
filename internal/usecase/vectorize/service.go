package vectorize

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shopglue/retrieval/internal/domain"
)

// Service builds hybrid query vectors: a dense embedding of the raw query
// alpha-blended with a hashed sparse vector of the expanded query.
type Service struct {
	embed        Embedder
	alpha        float64
	featureSpace int
}

// New creates a vectorization service. Alpha 0 is valid and means pure
// dense; values outside [0, 1] and a non-positive featureSpace fall back to
// the domain defaults.
func New(embed Embedder, alpha float64, featureSpace int) *Service {
	if alpha < 0 || alpha > 1 {
		alpha = domain.DefaultSearchAlpha
	}
	if featureSpace <= 0 {
		featureSpace = domain.DefaultFeatureSpace
	}
	return &Service{embed: embed, alpha: alpha, featureSpace: featureSpace}
}

// Alpha returns the configured dense/sparse blend weight.
func (s *Service) Alpha() float64 { return s.alpha }

// FeatureSpace returns the configured sparse feature space size.
func (s *Service) FeatureSpace() int { return s.featureSpace }

// BuildHybridQueryVectors produces the fused query vectors for a search.
// The dense embedding call and the sparse computation are independent and
// run concurrently. Embedding failures are terminal for the query; retry
// policy belongs to the caller.
func (s *Service) BuildHybridQueryVectors(ctx context.Context, query string) (domain.HybridQuery, error) {
	return s.BuildWithAlpha(ctx, query, s.alpha)
}

// BuildWithAlpha is BuildHybridQueryVectors with an explicit blend weight,
// used by indexing paths that operate at a different alpha.
func (s *Service) BuildWithAlpha(ctx context.Context, query string, alpha float64) (domain.HybridQuery, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.HybridQuery{}, domain.ErrEmptyQuery
	}

	var (
		dense  []float32
		sparse domain.SparseVector
		tokens int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Raw query only: synonym expansion would distort the embedding.
		res, err := s.embed.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		dense = res.Embedding
		return nil
	})

	g.Go(func() error {
		toks := Tokenize(Expand(query))
		sparse = BuildQuerySparse(toks, s.featureSpace)
		tokens = len(toks)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.HybridQuery{}, err
	}

	return domain.HybridQuery{
		HybridVector: Fuse(dense, sparse, alpha),
		TokenCount:   tokens,
	}, nil
}
