package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopglue/retrieval/internal/db"
	"github.com/shopglue/retrieval/internal/domain"
)

// Hash field names shared between upsert and the FT index schema.
const (
	fieldVector      = "vector"
	fieldSparse      = "sparse"
	fieldType        = "type"
	fieldCategory    = "category"
	fieldSubCategory = "sub_category"
	fieldTitle       = "title"
	fieldQuestion    = "question"
	fieldContent     = "content"
	fieldAnswer      = "answer"
	fieldHandle      = "handle"
	fieldExtra       = "extra"
	fieldIndexedAt   = "indexed_at"

	fieldVectorScore = "__vector_score"
)

// sparseDoc is the stored JSON shape of a sparse vector.
type sparseDoc struct {
	Indices []uint32  `json:"indices"`
	Values  []float64 `json:"values"`
}

func buildFields(doc *domain.Document) (map[string]string, error) {
	sparse, err := json.Marshal(sparseDoc{
		Indices: doc.Vector.Sparse.Indices,
		Values:  doc.Vector.Sparse.Values,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sparse vector: %w", err)
	}

	m := doc.Metadata
	fields := map[string]string{
		fieldVector:      string(vectorToBytes(doc.Vector.Dense)),
		fieldSparse:      string(sparse),
		fieldType:        m.Type,
		fieldCategory:    m.Category,
		fieldSubCategory: m.SubCategory,
		fieldTitle:       m.Title,
		fieldQuestion:    m.Question,
		fieldContent:     m.Content,
		fieldAnswer:      m.Answer,
		fieldHandle:      m.Handle,
		fieldIndexedAt:   strconv.FormatInt(time.Now().Unix(), 10),
	}

	if len(m.Extra) > 0 {
		extra, err := json.Marshal(m.Extra)
		if err != nil {
			return nil, fmt.Errorf("marshal extra metadata: %w", err)
		}
		fields[fieldExtra] = string(extra)
	}

	return fields, nil
}

func parseMetadata(fields map[string]string) domain.Metadata {
	m := domain.Metadata{
		Type:        fields[fieldType],
		Category:    fields[fieldCategory],
		SubCategory: fields[fieldSubCategory],
		Title:       fields[fieldTitle],
		Question:    fields[fieldQuestion],
		Content:     fields[fieldContent],
		Answer:      fields[fieldAnswer],
		Handle:      fields[fieldHandle],
	}

	if raw := fields[fieldExtra]; raw != "" {
		var extra map[string]string
		if err := json.Unmarshal([]byte(raw), &extra); err == nil {
			m.Extra = extra
		}
	}

	return m
}

func parseSparse(raw string) domain.SparseVector {
	if raw == "" {
		return domain.SparseVector{}
	}
	var doc sparseDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.SparseVector{}
	}
	return domain.SparseVector{Indices: doc.Indices, Values: doc.Values}
}

func entryToCandidate(entry db.SearchEntry, keyPrefix string, sparseScore float64) domain.Candidate {
	id := entry.Key
	if len(id) > len(keyPrefix) && id[:len(keyPrefix)] == keyPrefix {
		id = id[len(keyPrefix):]
	}
	return domain.Candidate{
		ID:       id,
		Score:    entry.Score + sparseScore,
		Metadata: parseMetadata(entry.Fields),
	}
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
