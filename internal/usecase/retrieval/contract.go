package retrieval

import (
	"context"

	"github.com/shopglue/retrieval/internal/domain"
)

// HybridBuilder builds hybrid query vectors. Implemented by
// usecase/vectorize.Service; the executor only needs it for the auxiliary
// collection query.
type HybridBuilder interface {
	BuildHybridQueryVectors(ctx context.Context, query string) (domain.HybridQuery, error)
}

// VectorIndex runs hybrid queries against one namespace. Implemented by
// repository/index.Repo.
type VectorIndex interface {
	Query(ctx context.Context, namespace string, q domain.HybridQuery, topK int, types []string) ([]domain.Candidate, error)
}
