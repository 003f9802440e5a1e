package retrieval

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/domain"
)

// mockBuilder implements HybridBuilder for tests.
type mockBuilder struct {
	buildFn func(ctx context.Context, query string) (domain.HybridQuery, error)

	mu      sync.Mutex
	queries []string
}

func (m *mockBuilder) BuildHybridQueryVectors(ctx context.Context, query string) (domain.HybridQuery, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.buildFn != nil {
		return m.buildFn(ctx, query)
	}
	return domain.HybridQuery{
		HybridVector: domain.HybridVector{Dense: []float32{0.1, 0.2}},
		TokenCount:   2,
	}, nil
}

// indexCall records one Query invocation.
type indexCall struct {
	namespace string
	topK      int
	types     []string
}

// mockIndex implements VectorIndex for tests.
type mockIndex struct {
	queryFn func(ctx context.Context, namespace string, q domain.HybridQuery, topK int, types []string) ([]domain.Candidate, error)

	mu    sync.Mutex
	calls []indexCall
}

func (m *mockIndex) Query(
	ctx context.Context, namespace string, q domain.HybridQuery, topK int, types []string,
) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, indexCall{namespace: namespace, topK: topK, types: types})
	m.mu.Unlock()
	if m.queryFn != nil {
		return m.queryFn(ctx, namespace, q, topK, types)
	}
	return nil, nil
}

func (m *mockIndex) namespaces() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.namespace)
	}
	return out
}

func newTestService(t *testing.T) (*Service, *mockBuilder, *mockIndex) {
	t.Helper()
	builder := &mockBuilder{}
	index := &mockIndex{}
	return New(builder, index, zap.NewNop()), builder, index
}

func candidate(id, docType, title string, score float64) domain.Candidate {
	return domain.Candidate{
		ID:    id,
		Score: score,
		Metadata: domain.Metadata{
			Type:   docType,
			Title:  title,
			Handle: id,
		},
	}
}
