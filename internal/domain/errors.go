package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank or whitespace-only query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrVectorDimMismatch signals a dense vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrNamespaceNotFound signals a query against a namespace that was
	// never populated. Callers treat it as zero results.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrDocumentInvalid signals a document that cannot be indexed.
	ErrDocumentInvalid = errors.New("invalid document")
	// ErrDocumentNotFound signals a lookup for a document that does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)
