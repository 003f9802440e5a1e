package chi

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/usecase/health"
	"github.com/shopglue/retrieval/internal/usecase/ingest"
)

type mockVectorizer struct {
	buildFn func(ctx context.Context, query string) (domain.HybridQuery, error)
	queries []string
}

func (m *mockVectorizer) BuildHybridQueryVectors(ctx context.Context, query string) (domain.HybridQuery, error) {
	m.queries = append(m.queries, query)
	if m.buildFn != nil {
		return m.buildFn(ctx, query)
	}
	return domain.HybridQuery{
		HybridVector: domain.HybridVector{Dense: []float32{0.1, 0.2}},
		TokenCount:   1,
	}, nil
}

type mockSearcher struct {
	searchFn func(
		ctx context.Context,
		website, query string,
		q domain.HybridQuery,
		classification *domain.Classification,
		useAllNamespaces bool,
	) ([]domain.RerankedCandidate, error)

	lastWebsite        string
	lastClassification *domain.Classification
	lastFanOut         bool
}

func (m *mockSearcher) PerformSearch(
	ctx context.Context,
	website, query string,
	q domain.HybridQuery,
	classification *domain.Classification,
	useAllNamespaces bool,
) ([]domain.RerankedCandidate, error) {
	m.lastWebsite = website
	m.lastClassification = classification
	m.lastFanOut = useAllNamespaces
	if m.searchFn != nil {
		return m.searchFn(ctx, website, query, q, classification, useAllNamespaces)
	}
	return nil, nil
}

type mockIngestor struct {
	upsertFn func(ctx context.Context, website, interactionType string, item ingest.Item) error
	batchFn  func(ctx context.Context, website, interactionType string, items []ingest.Item) error
	deleteFn func(ctx context.Context, website, interactionType, id string) error

	lastWebsite     string
	lastInteraction string
	lastItem        ingest.Item
	lastItems       []ingest.Item
	lastDeletedID   string
}

func (m *mockIngestor) Upsert(ctx context.Context, website, interactionType string, item ingest.Item) error {
	m.lastWebsite = website
	m.lastInteraction = interactionType
	m.lastItem = item
	if m.upsertFn != nil {
		return m.upsertFn(ctx, website, interactionType, item)
	}
	return nil
}

func (m *mockIngestor) UpsertBatch(ctx context.Context, website, interactionType string, items []ingest.Item) error {
	m.lastWebsite = website
	m.lastInteraction = interactionType
	m.lastItems = items
	if m.batchFn != nil {
		return m.batchFn(ctx, website, interactionType, items)
	}
	return nil
}

func (m *mockIngestor) Delete(ctx context.Context, website, interactionType, id string) error {
	m.lastWebsite = website
	m.lastInteraction = interactionType
	m.lastDeletedID = id
	if m.deleteFn != nil {
		return m.deleteFn(ctx, website, interactionType, id)
	}
	return nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

func newTestServer(t *testing.T) (*Server, *mockVectorizer, *mockSearcher, *mockIngestor) {
	t.Helper()
	vec := &mockVectorizer{}
	search := &mockSearcher{}
	ing := &mockIngestor{}
	healthSvc := health.New(&mockPinger{}, nil)
	return NewServer(vec, search, ing, healthSvc, zap.NewNop()), vec, search, ing
}

func reranked(id, title string, score, rerankScore float64, match string) domain.RerankedCandidate {
	return domain.RerankedCandidate{
		Candidate: domain.Candidate{
			ID:    id,
			Score: score,
			Metadata: domain.Metadata{
				Type:   "product",
				Title:  title,
				Handle: id,
			},
		},
		RerankScore:         rerankScore,
		ClassificationMatch: match,
	}
}
