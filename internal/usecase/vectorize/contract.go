package vectorize

import (
	"context"

	"github.com/shopglue/retrieval/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
