package vectorize

import "strings"

// synonyms is a small fixed expansion table for generic storefront
// vocabulary. Expansion feeds sparse scoring only; dense embeddings see the
// raw query (semantic models already generalize).
var synonyms = map[string][]string{
	"stuff":    {"products", "items", "parts", "catalog", "collections"},
	"things":   {"products", "items", "catalog"},
	"cost":     {"price", "pricing"},
	"cheap":    {"discount", "sale", "clearance"},
	"shipping": {"delivery"},
	"return":   {"refund", "exchange"},
}

// Expand appends known synonyms after the original query text, space-joined.
// Idempotence is not guaranteed on already-expanded text; re-expanding
// lowercase synonyms is harmless.
func Expand(query string) string {
	var extra []string
	for _, tok := range Tokenize(query) {
		if syns, ok := synonyms[tok]; ok {
			extra = append(extra, syns...)
		}
	}
	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}

// Tokenize lowercases text and splits on any character outside
// [a-z0-9+\-_]. Empty tokens are dropped, as are single-character
// alphanumerics; short tokens carrying +, - or _ survive (model codes,
// hyphenated terms).
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)

	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !isTokenRune(r)
	})

	tokens := fields[:0]
	for _, tok := range fields {
		if len(tok) == 1 && isAlphanumeric(tok[0]) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
		r == '+' || r == '-' || r == '_'
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
