package retrieval

import (
	"context"

	"go.uber.org/zap"
)

// Embedder is the public text vectorization contract. Implement it to plug
// in a custom embedding provider instead of the built-in OpenAI one.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	openAIKey     string
	openAIBaseURL string
	model         string
	dimensions    int

	embedder Embedder

	searchAlpha   float64
	indexingAlpha float64
	featureSpace  int
	topK          int
	fanOutTopK    int

	logger *zap.Logger
}

// WithRedis sets the Redis connection.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithOpenAI configures the built-in OpenAI-compatible embedding provider.
// model and dimensions are optional; zero values keep the defaults.
func WithOpenAI(apiKey, baseURL, model string, dimensions int) Option {
	return func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		c.model = model
		c.dimensions = dimensions
	}
}

// WithEmbedder plugs in a custom embedding provider. Takes precedence over
// WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithAlpha overrides the sparse blend weights for search and indexing.
// Zero means pure dense; a negative value keeps the default for that side.
func WithAlpha(searchAlpha, indexingAlpha float64) Option {
	return func(c *clientConfig) {
		if searchAlpha >= 0 {
			c.searchAlpha = searchAlpha
		}
		if indexingAlpha >= 0 {
			c.indexingAlpha = indexingAlpha
		}
	}
}

// WithFeatureSpace overrides the sparse hashing space size. Both query-side
// and document-side vectors hash into this space, so it must match across
// indexing and search.
func WithFeatureSpace(n int) Option {
	return func(c *clientConfig) {
		c.featureSpace = n
	}
}

// WithTopK overrides the per-namespace result limits.
func WithTopK(topK, fanOutTopK int) Option {
	return func(c *clientConfig) {
		c.topK = topK
		c.fanOutTopK = fanOutTopK
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
