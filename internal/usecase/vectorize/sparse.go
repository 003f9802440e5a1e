package vectorize

import (
	"math"
	"sort"

	"github.com/shopglue/retrieval/internal/domain"
)

// HashToken maps a token into [1, featureSpace).
func HashToken(token string, featureSpace int) uint32 {
	return domain.HashFeature(token, featureSpace)
}

// BuildQuerySparse converts a token stream into a hashed sparse vector.
// Weight per distinct token is sqrt(frequency): query texts are short, so
// log-frequency under-weights repeats and linear over-weights them. Tokens
// hashing to the same index accumulate.
func BuildQuerySparse(tokens []string, featureSpace int) domain.SparseVector {
	if len(tokens) == 0 {
		return domain.SparseVector{}
	}

	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}

	weights := make(map[uint32]float64, len(freq))
	for tok, n := range freq {
		idx := HashToken(tok, featureSpace)
		weights[idx] += math.Sqrt(float64(n))
	}

	vec := domain.SparseVector{
		Indices: make([]uint32, 0, len(weights)),
		Values:  make([]float64, 0, len(weights)),
	}
	for idx := range weights {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Slice(vec.Indices, func(i, j int) bool { return vec.Indices[i] < vec.Indices[j] })
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, weights[idx])
	}
	return vec
}
