package domain

// Content types the reranker treats specially.
const (
	TypeCollection = "collection"
	TypeProduct    = "product"
)

// DefaultInteractionType routes queries with no classified interaction.
const DefaultInteractionType = "discounts"

// FallbackInteractionTypes is the fan-out order when the caller's intent is
// unclassified. Order matters only for dedup (first occurrence wins).
func FallbackInteractionTypes() []string {
	return []string{"sales", "support", "discounts"}
}

// subCategoryWildcard is the upstream classifier's sentinel meaning
// "no sub-category constraint".
const subCategoryWildcard = "discounts"

// SubCategory is either a concrete sub-category label or a wildcard that
// matches any candidate.
type SubCategory struct {
	value    string
	wildcard bool
}

// NewSubCategory builds a sub-category from a classifier label. The
// sentinel value and the empty string both map to the wildcard variant.
func NewSubCategory(label string) SubCategory {
	if label == "" || label == subCategoryWildcard {
		return SubCategory{wildcard: true}
	}
	return SubCategory{value: label}
}

// WildcardSubCategory returns the variant matching any candidate.
func WildcardSubCategory() SubCategory { return SubCategory{wildcard: true} }

// IsWildcard reports whether this sub-category matches anything.
func (s SubCategory) IsWildcard() bool { return s.wildcard }

// Value returns the concrete label, empty for the wildcard variant.
func (s SubCategory) Value() string { return s.value }

// Matches reports whether a candidate's sub-category satisfies this one.
// A candidate with no sub-category is treated as a wildcard on its side.
func (s SubCategory) Matches(candidate string) bool {
	return s.wildcard || candidate == "" || s.value == candidate
}

// Classification is the coarse intent/topic label attached to a query.
// It biases namespace routing and reranking, never retrieval vector
// construction.
type Classification struct {
	Type            string
	Category        string
	SubCategory     SubCategory
	InteractionType string
	ActionIntent    string
}

// Interaction returns the effective interaction type, falling back to the
// default when the classification is nil or unlabeled.
func (c *Classification) Interaction() string {
	if c != nil && c.InteractionType != "" {
		return c.InteractionType
	}
	return DefaultInteractionType
}

// Namespace derives the index partition for this classification under the
// given website. Namespaces are strict partitions: querying the wrong one
// yields zero results, never wrong ones.
func (c *Classification) Namespace(website string) string {
	return website + "-" + c.Interaction()
}

// NamespaceFor builds a namespace from a website and an interaction or
// content type. The QA partition uses "{website}-qa".
func NamespaceFor(website, interactionType string) string {
	if interactionType == "" {
		return website
	}
	return website + "-" + interactionType
}
