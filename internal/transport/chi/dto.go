package chi

import "github.com/shopglue/retrieval/internal/domain"

// errorCode is the machine-readable error discriminator in error responses.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeUnauthorized      errorCode = "unauthorized"
	codeNamespaceNotFound errorCode = "namespace_not_found"
	codeDocumentNotFound  errorCode = "document_not_found"
	codeEmbeddingProvider errorCode = "embedding_provider_error"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// classificationDTO mirrors the upstream classifier's output. All fields are
// optional; an absent classification degrades the search to raw scores.
type classificationDTO struct {
	Type            string `json:"type,omitempty"`
	Category        string `json:"category,omitempty"`
	SubCategory     string `json:"sub_category,omitempty"`
	InteractionType string `json:"interaction_type,omitempty"`
	ActionIntent    string `json:"action_intent,omitempty"`
}

func (c *classificationDTO) toDomain() *domain.Classification {
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

type searchRequest struct {
	Website          string             `json:"website"`
	Query            string             `json:"query"`
	UseAllNamespaces bool               `json:"use_all_namespaces,omitempty"`
	Classification   *classificationDTO `json:"classification,omitempty"`
}

type metadataDTO struct {
	Type        string            `json:"type,omitempty"`
	Category    string            `json:"category,omitempty"`
	SubCategory string            `json:"sub_category,omitempty"`
	Title       string            `json:"title,omitempty"`
	Question    string            `json:"question,omitempty"`
	Content     string            `json:"content,omitempty"`
	Answer      string            `json:"answer,omitempty"`
	Handle      string            `json:"handle,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

func (m metadataDTO) toDomain() domain.Metadata {
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

func metadataToDTO(m domain.Metadata) metadataDTO {
	return metadataDTO{
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

type searchResultItem struct {
	ID                  string      `json:"id"`
	Score               float64     `json:"score"`
	RerankScore         float64     `json:"rerank_score"`
	ClassificationMatch string      `json:"classification_match"`
	Metadata            metadataDTO `json:"metadata"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

func searchResultToDTO(c domain.RerankedCandidate) searchResultItem {
	return searchResultItem{
		ID:                  c.ID,
		Score:               c.Score,
		RerankScore:         c.RerankScore,
		ClassificationMatch: c.ClassificationMatch,
		Metadata:            metadataToDTO(c.Metadata),
	}
}

type documentDTO struct {
	ID       string      `json:"id"`
	Metadata metadataDTO `json:"metadata"`
}

type upsertRequest struct {
	Website         string      `json:"website"`
	InteractionType string      `json:"interaction_type"`
	Document        documentDTO `json:"document"`
}

type batchUpsertRequest struct {
	Website         string        `json:"website"`
	InteractionType string        `json:"interaction_type"`
	Documents       []documentDTO `json:"documents"`
}

type batchUpsertResponse struct {
	Indexed int `json:"indexed"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
