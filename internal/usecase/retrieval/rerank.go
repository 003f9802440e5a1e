package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopglue/retrieval/internal/domain"
)

// Multipliers applied during reranking. The large gaps are intentional: the
// similarity metric compresses true relevance differences, so a correctly
// typed collection query or an exact product-name match must outrank merely
// similar content by orders of magnitude.
const (
	collectionBoost  = 30.0
	typeBoost        = 3.0
	exactNameBoost   = 100.0
	partialNameBoost = 10.0
)

// Rerank rescales raw similarity scores with classification and name-match
// bonuses and sorts descending. Pure and deterministic; ties keep input
// order. The raw Score field is never mutated. A nil classification skips
// rescoring entirely: candidates come back in input order with
// rerankScore = score.
func Rerank(candidates []domain.Candidate, c *domain.Classification, query string) []domain.RerankedCandidate {
	if c == nil {
		return annotateRaw(candidates)
	}

	out := make([]domain.RerankedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		match := classificationMatch(cand.Metadata, c)

		score := cand.Score
		score *= typeMultiplier(cand.Metadata.Type, c.Type)
		score *= 1 + float64(match)/3*2
		score *= nameMultiplier(cand.Metadata, query)

		out = append(out, domain.RerankedCandidate{
			Candidate:           cand,
			RerankScore:         score,
			ClassificationMatch: fmt.Sprintf("%d/3", match),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}

// classificationMatch counts matching classification facets, 0 to 3. Type is
// the gate: category and sub-category only score when the type matches.
func classificationMatch(m domain.Metadata, c *domain.Classification) int {
	if c.Type == "" || m.Type != c.Type {
		return 0
	}
	match := 1
	if c.Category != "" && m.Category == c.Category {
		match++
	}
	if c.SubCategory.Matches(m.SubCategory) {
		match++
	}
	return match
}

func typeMultiplier(candidateType, classifiedType string) float64 {
	if classifiedType == domain.TypeCollection && candidateType == domain.TypeCollection {
		return collectionBoost
	}
	if classifiedType != "" && candidateType == classifiedType {
		return typeBoost
	}
	return 1
}

// nameMultiplier boosts products whose display name matches the raw query.
func nameMultiplier(m domain.Metadata, query string) float64 {
	if m.Type != domain.TypeProduct {
		return 1
	}
	name := strings.ToLower(strings.TrimSpace(m.Name()))
	q := strings.ToLower(strings.TrimSpace(query))
	if name == "" || q == "" {
		return 1
	}
	if name == q {
		return exactNameBoost
	}
	if strings.Contains(name, q) || strings.Contains(q, name) {
		return partialNameBoost
	}
	return 1
}

// annotateRaw wraps candidates without rescoring, for unclassified queries.
func annotateRaw(candidates []domain.Candidate) []domain.RerankedCandidate {
	out := make([]domain.RerankedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, domain.RerankedCandidate{
			Candidate:           cand,
			RerankScore:         cand.Score,
			ClassificationMatch: "0/3",
		})
	}
	return out
}
