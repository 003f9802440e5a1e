// Package retrieval is the embeddable SDK for the hybrid lexical-semantic
// retrieval engine: namespace-partitioned vector indexes over Redis, fused
// dense/sparse query vectors, and classification-aware reranking.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/db"
	dbRedis "github.com/shopglue/retrieval/internal/db/redis"
	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/lexical/blevestats"
	indexrepo "github.com/shopglue/retrieval/internal/repository/index"
	openaiEmb "github.com/shopglue/retrieval/internal/transport/openai"
	"github.com/shopglue/retrieval/internal/usecase/ingest"
	retrievaluc "github.com/shopglue/retrieval/internal/usecase/retrieval"
	"github.com/shopglue/retrieval/internal/usecase/sparsegen"
	"github.com/shopglue/retrieval/internal/usecase/vectorize"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the retrieval SDK entry point.
type Client struct {
	store      db.Store
	vectorizer *vectorize.Service
	searchSvc  *retrievaluc.Service
	ingestSvc  *ingest.Service
}

// New creates a retrieval Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions:    domain.DefaultDimensions,
		searchAlpha:   domain.DefaultSearchAlpha,
		indexingAlpha: domain.DefaultIndexingAlpha,
		logger:        zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("retrieval: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieval: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("retrieval: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	var embedder domain.Embedder
	switch {
	case cfg.embedder != nil:
		embedder = &embedderAdapter{inner: cfg.embedder}
	case cfg.openAIKey != "":
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     cfg.logger,
		})
	default:
		embedder = &noopEmbedder{}
	}

	vectorizer := vectorize.New(embedder, cfg.searchAlpha, cfg.featureSpace)
	sparseSvc := sparsegen.New(blevestats.New(cfg.logger), cfg.featureSpace, cfg.logger)
	repo := indexrepo.New(store, cfg.dimensions)
	searchSvc := retrievaluc.New(vectorizer, repo, cfg.logger).
		WithTopK(cfg.topK, cfg.fanOutTopK)
	ingestSvc := ingest.New(embedder, sparseSvc, repo, cfg.indexingAlpha)

	return &Client{
		store:      store,
		vectorizer: vectorizer,
		searchSvc:  searchSvc,
		ingestSvc:  ingestSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// BuildHybridQueryVectors builds the fused dense/sparse query vectors for a
// raw query string.
func (c *Client) BuildHybridQueryVectors(ctx context.Context, query string) (HybridQuery, error) {
	q, err := c.vectorizer.BuildHybridQueryVectors(ctx, query)
	if err != nil {
		return HybridQuery{}, fmt.Errorf("build query vectors: %w", err)
	}
	return HybridQuery{inner: q}, nil
}

// Search vectorizes the query and runs a classified namespace search under
// the given website. A nil classification routes to the default namespace
// and skips rerank rescoring.
func (c *Client) Search(
	ctx context.Context,
	website, query string,
	classification *Classification,
	useAllNamespaces bool,
) ([]SearchResult, error) {
	q, err := c.BuildHybridQueryVectors(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.SearchWithVectors(ctx, website, query, q, classification, useAllNamespaces)
}

// SearchWithVectors is Search with caller-supplied vectors, for callers that
// reuse one embedding across multiple searches.
func (c *Client) SearchWithVectors(
	ctx context.Context,
	website, query string,
	q HybridQuery,
	classification *Classification,
	useAllNamespaces bool,
) ([]SearchResult, error) {
	results, err := c.searchSvc.PerformSearch(
		ctx, website, query, q.inner, classificationToDomain(classification), useAllNamespaces,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = resultFromDomain(results[i])
	}
	return out, nil
}

// UpsertDocument vectorizes and indexes a document in the namespace derived
// from the website and interaction type.
func (c *Client) UpsertDocument(ctx context.Context, website, interactionType string, doc Document) error {
	item := ingest.Item{ID: doc.ID, Metadata: metadataToDomain(doc.Metadata)}
	if err := c.ingestSvc.Upsert(ctx, website, interactionType, item); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// UpsertDocuments vectorizes and indexes documents in one batch.
func (c *Client) UpsertDocuments(ctx context.Context, website, interactionType string, docs []Document) error {
	items := make([]ingest.Item, len(docs))
	for i, d := range docs {
		items[i] = ingest.Item{ID: d.ID, Metadata: metadataToDomain(d.Metadata)}
	}
	if err := c.ingestSvc.UpsertBatch(ctx, website, interactionType, items); err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}
	return nil
}

// DeleteDocument removes a document from its namespace.
func (c *Client) DeleteDocument(ctx context.Context, website, interactionType, id string) error {
	if err := c.ingestSvc.Delete(ctx, website, interactionType, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Rerank rescores candidates against a classification without touching the
// index. Exposed for callers that retrieve candidates out of band.
func Rerank(results []SearchResult, classification *Classification, query string) []SearchResult {
	candidates := make([]domain.Candidate, len(results))
	for i, r := range results {
		candidates[i] = domain.Candidate{
			ID:       r.ID,
			Score:    r.Score,
			Metadata: metadataToDomain(r.Metadata),
		}
	}

	ranked := retrievaluc.Rerank(candidates, classificationToDomain(classification), query)

	out := make([]SearchResult, len(ranked))
	for i := range ranked {
		out[i] = resultFromDomain(ranked[i])
	}
	return out
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"retrieval: embedder not configured (use WithOpenAI or WithEmbedder)",
	)
}
