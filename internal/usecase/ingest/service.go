// Package ingest vectorizes content items and writes them into namespace
// indexes: dense embedding and lexical sparse generation run concurrently,
// then the two are fused at the indexing alpha before the upsert.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/usecase/vectorize"
)

// embedConcurrency bounds parallel embedding calls during batch ingestion.
const embedConcurrency = 4

// Item is a content unit to vectorize and index.
type Item struct {
	ID       string
	Metadata domain.Metadata
}

// Service builds index documents from content items.
type Service struct {
	embed  domain.Embedder
	sparse SparseGenerator
	repo   Repository
	alpha  float64
}

// New creates an ingestion service. alpha is the indexing blend; 0 indexes
// dense-only, values outside [0, 1] fall back to the default.
func New(embed domain.Embedder, sparse SparseGenerator, repo Repository, alpha float64) *Service {
	if alpha < 0 || alpha > 1 {
		alpha = domain.DefaultIndexingAlpha
	}
	return &Service{
		embed:  embed,
		sparse: sparse,
		repo:   repo,
		alpha:  alpha,
	}
}

// Upsert vectorizes one item and writes it to the namespace derived from
// the website and interaction type.
func (s *Service) Upsert(ctx context.Context, website, interactionType string, item Item) error {
	doc, err := s.buildDocument(ctx, item)
	if err != nil {
		return err
	}

	namespace := domain.NamespaceFor(website, interactionType)
	if err := s.repo.Upsert(ctx, namespace, doc); err != nil {
		return fmt.Errorf("upsert document %s: %w", item.ID, err)
	}
	return nil
}

// UpsertBatch vectorizes items with bounded concurrency and writes them in
// one pipelined batch. Any embedding failure aborts the whole batch: a
// partially vectorized batch must not be silently half-indexed.
func (s *Service) UpsertBatch(ctx context.Context, website, interactionType string, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]domain.Document, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			doc, err := s.buildDocument(gctx, item)
			if err != nil {
				return err
			}
			docs[i] = *doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	namespace := domain.NamespaceFor(website, interactionType)
	if err := s.repo.UpsertBatch(ctx, namespace, docs); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Delete removes a document from its namespace.
func (s *Service) Delete(ctx context.Context, website, interactionType, id string) error {
	namespace := domain.NamespaceFor(website, interactionType)
	if err := s.repo.Delete(ctx, namespace, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// buildDocument runs the dense and sparse pipelines concurrently and fuses
// the results. Embedding failures are terminal; sparse generation recovers
// internally and never fails.
func (s *Service) buildDocument(ctx context.Context, item Item) (*domain.Document, error) {
	text := embeddingText(item.Metadata)
	if text == "" {
		return nil, fmt.Errorf("document %s has no text: %w", item.ID, domain.ErrDocumentInvalid)
	}

	var (
		dense  domain.EmbeddingResult
		sparse domain.SparseVector
	)
	m := item.Metadata

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.embed.Embed(gctx, text)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", item.ID, err)
		}
		dense = result
		return nil
	})
	g.Go(func() error {
		sparse = s.sparse.SparseFromStatistics(gctx, text, m.Type, m.Category, m.SubCategory)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:       item.ID,
		Metadata: item.Metadata,
		Vector:   vectorize.Fuse(dense.Embedding, sparse, s.alpha),
	}, nil
}

// embeddingText assembles the text fed to both vector pipelines: display
// name first, then the body fields that are present.
func embeddingText(m domain.Metadata) string {
	parts := make([]string, 0, 3)
	if name := m.Name(); name != "" {
		parts = append(parts, name)
	}
	if m.Content != "" {
		parts = append(parts, m.Content)
	}
	if m.Answer != "" {
		parts = append(parts, m.Answer)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
