package domain

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// DefaultFeatureSpace is the sparse feature space size. A prime keeps the
// modulo reduction well distributed; index 0 is reserved for absent terms.
const DefaultFeatureSpace = 2_000_003

// DefaultDimensions is the dense embedding dimension (text-embedding-3-large).
const DefaultDimensions = 3072

// HashFeature maps a term into [1, featureSpace) via a 32-bit FNV-1a hash.
// Index 0 is reserved so an absent term can never collide with a present
// one. Query-time tokens and document-time terms share this scheme; sparse
// comparability depends on it.
func HashFeature(term string, featureSpace int) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(term))
	return h.Sum32()%uint32(featureSpace-1) + 1
}

// SparseVector is a hashed lexical feature vector stored as two parallel
// sequences: indices strictly ascending, values aligned positionally.
type SparseVector struct {
	Indices []uint32
	Values  []float64
}

// IsEmpty reports whether the vector has no entries.
func (v SparseVector) IsEmpty() bool { return len(v.Indices) == 0 }

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Validate checks the parallel-sequence invariants: equal lengths, strictly
// ascending indices, non-negative values.
func (v SparseVector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("sparse vector: %d indices vs %d values", len(v.Indices), len(v.Values))
	}
	for i := range v.Indices {
		if i > 0 && v.Indices[i] <= v.Indices[i-1] {
			return errors.New("sparse vector: indices not strictly ascending")
		}
		if v.Values[i] < 0 {
			return errors.New("sparse vector: negative value")
		}
	}
	return nil
}

// Scale returns a copy with every value multiplied by factor. Indices are shared.
func (v SparseVector) Scale(factor float64) SparseVector {
	scaled := SparseVector{Indices: v.Indices, Values: make([]float64, len(v.Values))}
	for i, val := range v.Values {
		scaled.Values[i] = val * factor
	}
	return scaled
}

// Dot computes the sparse dot product of two vectors. Both operands must
// hold ascending indices; the merge walk relies on it.
func (v SparseVector) Dot(other SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// HybridVector pairs an alpha-scaled dense embedding with an alpha-scaled
// sparse lexical vector. The downstream index adds the two similarities, so
// the scaling is what balances the modalities.
type HybridVector struct {
	Dense  []float32
	Sparse SparseVector
}

// HybridQuery is the output of query vectorization: the fused vectors plus
// the number of tokens that fed sparse scoring.
type HybridQuery struct {
	HybridVector
	TokenCount int
}
