// Package index stores vectorized documents in per-namespace FT indexes and
// executes hybrid queries against them: dense similarity comes from the KNN
// search, sparse similarity from a dot product against the stored sparse
// vector, and the two are summed into the candidate score.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopglue/retrieval/internal/db"
	"github.com/shopglue/retrieval/internal/domain"
)

// overfetchFactor widens the KNN recall set so sparse rescoring has
// candidates to promote beyond the dense top-k.
const overfetchFactor = 3

// store is the consumer interface for namespace indexes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the vector index contracts of the search and ingest
// usecases.
type Repo struct {
	store      store
	dimensions int

	mu      sync.Mutex
	ensured map[string]bool
}

// New creates a namespace index repository. dimensions is the dense vector
// width enforced by the FT schema.
func New(s store, dimensions int) *Repo {
	if dimensions <= 0 {
		dimensions = domain.DefaultDimensions
	}
	return &Repo{
		store:      s,
		dimensions: dimensions,
		ensured:    make(map[string]bool),
	}
}

// Upsert writes a document into a namespace, creating the namespace index on
// first use.
func (r *Repo) Upsert(ctx context.Context, namespace string, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := r.ensureIndex(ctx, namespace); err != nil {
		return err
	}

	fields, err := buildFields(doc)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.docKey(namespace, doc.ID), fields); err != nil {
		return fmt.Errorf("upsert %s: %w", doc.ID, err)
	}
	return nil
}

// UpsertBatch writes multiple documents in one pipelined round-trip.
func (r *Repo) UpsertBatch(ctx context.Context, namespace string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := r.ensureIndex(ctx, namespace); err != nil {
		return err
	}

	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("document %s: %w", doc.ID, err)
		}
		fields, err := buildFields(doc)
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: r.docKey(namespace, doc.ID), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Query runs a hybrid search in one namespace. The dense part of the query
// retrieves an overfetched KNN set; each hit is rescored with the sparse dot
// product before the final top-k cut.
func (r *Repo) Query(
	ctx context.Context, namespace string, q domain.HybridQuery, topK int, types []string,
) ([]domain.Candidate, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	exists, err := r.store.IndexExists(ctx, r.indexName(namespace))
	if err != nil {
		return nil, fmt.Errorf("check namespace %s: %w", namespace, err)
	}
	if !exists {
		return nil, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNamespaceNotFound)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.indexName(namespace),
		Types:     types,
		Vector:    q.Dense,
		K:         topK * overfetchFactor,
		ReturnFields: []string{
			fieldVectorScore, fieldSparse,
			fieldType, fieldCategory, fieldSubCategory,
			fieldTitle, fieldQuestion, fieldContent, fieldAnswer, fieldHandle,
			fieldExtra,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query namespace %s: %w", namespace, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	prefix := r.keyPrefix(namespace)
	candidates := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docSparse := parseSparse(entry.Fields[fieldSparse])
		delete(entry.Fields, fieldSparse)
		candidates = append(candidates, entryToCandidate(entry, prefix, q.Sparse.Dot(docSparse)))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// Get fetches a single document's metadata by ID.
func (r *Repo) Get(ctx context.Context, namespace, id string) (domain.Candidate, error) {
	fields, err := r.store.HGetAll(ctx, r.docKey(namespace, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Candidate{}, domain.ErrDocumentNotFound
		}
		return domain.Candidate{}, fmt.Errorf("get %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Candidate{}, domain.ErrDocumentNotFound
	}
	return domain.Candidate{ID: id, Metadata: parseMetadata(fields)}, nil
}

// Delete removes a document from a namespace.
func (r *Repo) Delete(ctx context.Context, namespace, id string) error {
	if err := r.store.Del(ctx, r.docKey(namespace, id)); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// ensureIndex creates the namespace FT index on first write. Creation is
// cached per process; ErrIndexExists from concurrent writers is fine.
func (r *Repo) ensureIndex(ctx context.Context, namespace string) error {
	r.mu.Lock()
	done := r.ensured[namespace]
	r.mu.Unlock()
	if done {
		return nil
	}

	def, err := db.NewIndex(r.indexName(namespace)).
		Prefix(r.keyPrefix(namespace)).
		Tag(fieldType).
		Tag(fieldCategory).
		Tag(fieldSubCategory).
		Text(fieldTitle).
		Text(fieldQuestion).
		Numeric(fieldIndexedAt).
		VectorHNSW(fieldVector, r.dimensions, db.DistanceIP, 16, 200).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create namespace index %s: %w", namespace, err)
	}

	r.mu.Lock()
	r.ensured[namespace] = true
	r.mu.Unlock()
	return nil
}

func (r *Repo) indexName(namespace string) string {
	return fmt.Sprintf("%sns:%s:idx", domain.KeyPrefix, sanitizeNamespace(namespace))
}

func (r *Repo) keyPrefix(namespace string) string {
	return fmt.Sprintf("%sns:%s:", domain.KeyPrefix, sanitizeNamespace(namespace))
}

func (r *Repo) docKey(namespace, id string) string {
	return r.keyPrefix(namespace) + id
}

// sanitizeNamespace maps a namespace onto the identifier charset accepted by
// FT.CREATE. Colons are replaced too since they delimit key segments.
func sanitizeNamespace(ns string) string {
	var b strings.Builder
	b.Grow(len(ns))
	for _, r := range ns {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if isAlpha || isDigit || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
