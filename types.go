package retrieval

import "github.com/shopglue/retrieval/internal/domain"

// Metadata is the public document metadata shape.
type Metadata struct {
	Type        string
	Category    string
	SubCategory string
	Title       string
	Question    string
	Content     string
	Answer      string
	Handle      string
	Extra       map[string]string
}

// Document is a content unit to index.
type Document struct {
	ID       string
	Metadata Metadata
}

// Classification is the query intent/topic label produced by an upstream
// classifier. The zero value means "unclassified".
type Classification struct {
	Type            string
	Category        string
	SubCategory     string
	InteractionType string
	ActionIntent    string
}

// SearchResult is one reranked candidate.
type SearchResult struct {
	ID                  string
	Score               float64
	RerankScore         float64
	ClassificationMatch string
	Metadata            Metadata
}

// HybridQuery carries prebuilt query vectors between BuildHybridQueryVectors
// and Search. Opaque by design: the fusion layout is internal.
type HybridQuery struct {
	inner domain.HybridQuery
}

// TokenCount returns the expanded-query token count.
func (q HybridQuery) TokenCount() int { return q.inner.TokenCount }

// EmbeddingResult is the public embedding call result.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

func metadataToDomain(m Metadata) domain.Metadata {
	return domain.Metadata{
		Type:        m.Type,
		Category:    m.Category,
		SubCategory: m.SubCategory,
		Title:       m.Title,
		Question:    m.Question,
		Content:     m.Content,
		Answer:      m.Answer,
		Handle:      m.Handle,
		Extra:       m.Extra,
	}
}

func metadataFromDomain(m domain.Metadata) Metadata {
	return Metadata{
		Type:        m.Type,
		Category:    m.Category,
		SubCategory: m.SubCategory,
		Title:       m.Title,
		Question:    m.Question,
		Content:     m.Content,
		Answer:      m.Answer,
		Handle:      m.Handle,
		Extra:       m.Extra,
	}
}

func classificationToDomain(c *Classification) *domain.Classification {
	if c == nil {
		return nil
	}
	return &domain.Classification{
		Type:            c.Type,
		Category:        c.Category,
		SubCategory:     domain.NewSubCategory(c.SubCategory),
		InteractionType: c.InteractionType,
		ActionIntent:    c.ActionIntent,
	}
}

func resultFromDomain(c domain.RerankedCandidate) SearchResult {
	return SearchResult{
		ID:                  c.ID,
		Score:               c.Score,
		RerankScore:         c.RerankScore,
		ClassificationMatch: c.ClassificationMatch,
		Metadata:            metadataFromDomain(c.Metadata),
	}
}
