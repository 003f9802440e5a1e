package domain

// KeyPrefix namespaces every Redis key and FT index owned by the engine.
const KeyPrefix = "shopglue:"

// Alpha defaults. Question answering leans lexical; document indexing
// splits evenly.
const (
	DefaultSearchAlpha   = 0.6
	DefaultIndexingAlpha = 0.5
)

// TopK defaults for the namespace search executor.
const (
	DefaultTopK = 10
	FanOutTopK  = 7
)
