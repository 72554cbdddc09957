package embedder

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// Cached wraps an Embedder with a ristretto cache keyed by input text.
// Embedding the same text twice (common when agents re-observe recurring
// events) hits the cache instead of the model.
type Cached struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCached creates a caching wrapper around inner. maxBytes bounds the
// total size of cached vectors.
func NewCached(inner Embedder, maxBytes int64) (*Cached, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("maxBytes must be positive, got %d", maxBytes)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		// Ristretto wants ~10x counters per expected item; one vector
		// costs 4 bytes per dimension.
		NumCounters: 10 * maxBytes / int64(4*inner.Dimensions()),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, or embeds and caches it.
// Returned slices are shared with the cache; callers must not mutate them.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v.([]float32), nil
	}

	embedding, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, embedding, int64(4*len(embedding)))
	return embedding, nil
}

// Dimensions returns the embedding vector size of the wrapped embedder.
func (c *Cached) Dimensions() int {
	return c.inner.Dimensions()
}

// Wait blocks until buffered cache writes have been applied. Mostly useful
// in tests asserting hit behavior.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Close releases the cache's resources.
func (c *Cached) Close() {
	c.cache.Close()
}
