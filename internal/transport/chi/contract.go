package chi

import (
	"context"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/usecase/ingest"
)

// Vectorizer builds the hybrid query vectors (consumer interface, ISP).
type Vectorizer interface {
	BuildHybridQueryVectors(ctx context.Context, query string) (domain.HybridQuery, error)
}

// Searcher executes namespace searches over prebuilt vectors.
type Searcher interface {
	PerformSearch(
		ctx context.Context,
		website, query string,
		q domain.HybridQuery,
		classification *domain.Classification,
		useAllNamespaces bool,
	) ([]domain.RerankedCandidate, error)
}

// Ingestor vectorizes and stores content items.
type Ingestor interface {
	Upsert(ctx context.Context, website, interactionType string, item ingest.Item) error
	UpsertBatch(ctx context.Context, website, interactionType string, items []ingest.Item) error
	Delete(ctx context.Context, website, interactionType, id string) error
}
