package index

import (
	"context"
	"testing"

	"github.com/shopglue/retrieval/internal/db"
	"github.com/shopglue/retrieval/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)

	createCalls int
	lastHSetKey string
	lastFields  map[string]string
	lastQuery   *db.KNNQuery
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.lastHSetKey = key
	m.lastFields = fields
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.createCalls++
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 4), ms
}

func testDocument(id string) domain.Document {
	return domain.Document{
		ID: id,
		Metadata: domain.Metadata{
			Type:     "product",
			Category: "sports",
			Title:    "Snowboard Wax",
			Handle:   "snowboard-wax",
		},
		Vector: domain.HybridVector{
			Dense: []float32{0.1, 0.2, 0.3, 0.4},
			Sparse: domain.SparseVector{
				Indices: []uint32{3, 17},
				Values:  []float64{0.5, 1.0},
			},
		},
	}
}
