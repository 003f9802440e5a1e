package embcache

import (
	"context"
	"errors"
	"testing"

	"github.com/shopglue/retrieval/internal/db"
	"github.com/shopglue/retrieval/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	// SET → OK (cache put)
	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		setCalled = true
		return nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})

	// GET → cached bytes
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
	if inner.calls != 0 {
		t.Fatalf("expected no inner calls on cache hit, got %d", inner.calls)
	}
}

func TestEmbed_SameTextSameKey(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	var keys []string
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		keys = append(keys, key)
		return nil, db.ErrKeyNotFound
	}

	_, _ = ce.Embed(context.Background(), "winter jackets")
	_, _ = ce.Embed(context.Background(), "winter jackets")
	_, _ = ce.Embed(context.Background(), "summer shorts")

	if len(keys) != 3 {
		t.Fatalf("expected 3 GETs, got %d", len(keys))
	}
	if keys[0] != keys[1] {
		t.Error("same text must map to the same cache key")
	}
	if keys[0] == keys[2] {
		t.Error("different texts must map to different cache keys")
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(ctx, "test text")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.7}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	// 3 bytes is not a whole float32; must be treated as a miss.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{0x01, 0x02, 0x03}, nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 1 || result.Embedding[0] != 0.7 {
		t.Fatalf("expected inner result after corrupt cache entry, got %v", result.Embedding)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 0, 3.75}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("element %d: %f != %f", i, in[i], out[i])
		}
	}
}
