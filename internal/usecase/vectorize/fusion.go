package vectorize

import "github.com/shopglue/retrieval/internal/domain"

// Fuse alpha-blends a dense embedding and a sparse lexical vector into one
// hybrid query. The index adds dense and sparse similarity, so scaling here
// is what keeps either modality from dominating: alpha=0 degenerates to
// pure dense search, alpha=1 to pure sparse.
func Fuse(dense []float32, sparse domain.SparseVector, alpha float64) domain.HybridVector {
	denseScaled := make([]float32, len(dense))
	denseFactor := float32(1 - alpha)
	for i, v := range dense {
		denseScaled[i] = v * denseFactor
	}

	return domain.HybridVector{
		Dense:  denseScaled,
		Sparse: sparse.Scale(alpha),
	}
}
