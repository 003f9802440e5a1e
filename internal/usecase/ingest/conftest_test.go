package ingest

import (
	"context"
	"sync"
	"testing"

	"github.com/shopglue/retrieval/internal/domain"
)

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)

	mu    sync.Mutex
	texts []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 1, 1, 1}}, nil
}

// mockSparse implements SparseGenerator for tests.
type mockSparse struct {
	sparseFn func(ctx context.Context, text, docType, category, subCategory string) domain.SparseVector

	lastText string
	lastType string
}

func (m *mockSparse) SparseFromStatistics(
	ctx context.Context, text, docType, category, subCategory string,
) domain.SparseVector {
	m.lastText = text
	m.lastType = docType
	if m.sparseFn != nil {
		return m.sparseFn(ctx, text, docType, category, subCategory)
	}
	return domain.SparseVector{Indices: []uint32{5}, Values: []float64{1}}
}

// mockRepo implements Repository for tests.
type mockRepo struct {
	upsertFn func(ctx context.Context, namespace string, doc *domain.Document) error
	batchFn  func(ctx context.Context, namespace string, docs []domain.Document) error
	deleteFn func(ctx context.Context, namespace, id string) error

	lastNamespace string
	lastDoc       *domain.Document
	lastBatch     []domain.Document
}

func (m *mockRepo) Upsert(ctx context.Context, namespace string, doc *domain.Document) error {
	m.lastNamespace = namespace
	m.lastDoc = doc
	if m.upsertFn != nil {
		return m.upsertFn(ctx, namespace, doc)
	}
	return nil
}

func (m *mockRepo) UpsertBatch(ctx context.Context, namespace string, docs []domain.Document) error {
	m.lastNamespace = namespace
	m.lastBatch = docs
	if m.batchFn != nil {
		return m.batchFn(ctx, namespace, docs)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, namespace, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, namespace, id)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mockEmbedder, *mockSparse, *mockRepo) {
	t.Helper()
	embed := &mockEmbedder{}
	sparse := &mockSparse{}
	repo := &mockRepo{}
	return New(embed, sparse, repo, domain.DefaultIndexingAlpha), embed, sparse, repo
}

func testItem(id string) Item {
	return Item{
		ID: id,
		Metadata: domain.Metadata{
			Type:     "product",
			Category: "sports",
			Title:    "Snowboard Wax",
			Content:  "All-temperature glide wax.",
			Handle:   "snowboard-wax",
		},
	}
}
