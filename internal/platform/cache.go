package platform

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

// CachedProvider memoizes metadata lookups so a reprocess of the same URL
// does not refetch the platform API. Caption fetches are not cached.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, Metadata]
}

// NewCachedProvider wraps a provider with an LRU metadata cache.
func NewCachedProvider(inner Provider, size int) *CachedProvider {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, _ := lru.New[string, Metadata](size)
	return &CachedProvider{inner: inner, cache: cache}
}

// Lookup returns cached metadata when present.
func (c *CachedProvider) Lookup(ctx context.Context, rawURL string) (Metadata, error) {
	if meta, ok := c.cache.Get(rawURL); ok {
		return meta, nil
	}
	meta, err := c.inner.Lookup(ctx, rawURL)
	if err != nil {
		return Metadata{}, err
	}
	c.cache.Add(rawURL, meta)
	return meta, nil
}

// FetchCaptions delegates to the wrapped provider.
func (c *CachedProvider) FetchCaptions(ctx context.Context, track CaptionTrack) ([]Caption, error) {
	return c.inner.FetchCaptions(ctx, track)
}

var _ Provider = (*CachedProvider)(nil)
