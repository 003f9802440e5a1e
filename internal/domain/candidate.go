package domain

// Metadata carries the typed document fields the reranker reads, plus an
// open extension map for heterogeneous document shapes.
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

// Name returns the display name used for exact/partial match boosting:
// the title for content documents, the question for QA entries.
func (m Metadata) Name() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Question
}

// NaturalKey identifies a document across duplicate index entries.
// Falls back through handle, question, and title.
func (m Metadata) NaturalKey() string {
	switch {
	case m.Handle != "":
		return m.Handle
	case m.Question != "":
		return m.Question
	default:
		return m.Title
	}
}

// Candidate is a document returned by the vector index.
type Candidate struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// RerankedCandidate is a candidate with its rerank score and classification
// match fraction. The raw Score is never mutated; RerankScore alone decides
// the final order.
type RerankedCandidate struct {
	Candidate
	RerankScore         float64
	ClassificationMatch string // "k/3"
}
