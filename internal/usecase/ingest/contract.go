package ingest

import (
	"context"

	"github.com/shopglue/retrieval/internal/domain"
)

// SparseGenerator produces document-side sparse vectors from lexical
// statistics. Implemented by usecase/sparsegen.Service.
type SparseGenerator interface {
	SparseFromStatistics(ctx context.Context, text, docType, category, subCategory string) domain.SparseVector
}

// Repository stores vectorized documents. Implemented by
// repository/index.Repo.
type Repository interface {
	Upsert(ctx context.Context, namespace string, doc *domain.Document) error
	UpsertBatch(ctx context.Context, namespace string, docs []domain.Document) error
	Delete(ctx context.Context, namespace, id string) error
}
