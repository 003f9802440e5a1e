package domain

import "strings"

// Document is a fully vectorized item ready for namespace indexing.
type Document struct {
	ID       string
	Metadata Metadata
	Vector   HybridVector
}

// Validate checks that the document can be indexed.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrDocumentInvalid
	}
	if len(d.Vector.Dense) == 0 {
		return ErrDocumentInvalid
	}
	if err := d.Vector.Sparse.Validate(); err != nil {
		return ErrDocumentInvalid
	}
	return nil
}
