package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"budgetsheet/internal/cache"
	"budgetsheet/internal/catalog"
)

// CatalogProvider supplies the chart of accounts used to build trees.
// Returned catalogs are shared and must not be mutated.
type CatalogProvider interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

const catalogCacheKey = "catalog"

// CachedCatalogProvider memoizes another provider. Concurrent misses share
// one load.
type CachedCatalogProvider struct {
	src   CatalogProvider
	cache cache.Cache[*catalog.Catalog]
	group singleflight.Group
}

// NewCachedCatalogProvider wraps src. A ttl of zero or less disables
// caching but still collapses concurrent loads.
func NewCachedCatalogProvider(src CatalogProvider, ttl time.Duration) *CachedCatalogProvider {
	if ttl <= 0 {
		return NewCatalogProviderWithCache(src, nil)
	}
	return NewCatalogProviderWithCache(src, cache.NewLRUCache[*catalog.Catalog](1, ttl))
}

// NewCatalogProviderWithCache wraps src with c. A nil c disables caching.
func NewCatalogProviderWithCache(src CatalogProvider, c cache.Cache[*catalog.Catalog]) *CachedCatalogProvider {
	return &CachedCatalogProvider{src: src, cache: c}
}

func (p *CachedCatalogProvider) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if p.cache != nil {
		if c, ok := p.cache.Get(catalogCacheKey); ok {
			return c, nil
		}
	}
	v, err, _ := p.group.Do(catalogCacheKey, func() (interface{}, error) {
		c, err := p.src.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			p.cache.Set(catalogCacheKey, c)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Catalog), nil
}

// Invalidate drops the cached catalog so the next call reloads it.
func (p *CachedCatalogProvider) Invalidate() {
	if p.cache != nil {
		p.cache.Delete(catalogCacheKey)
	}
}

// Cleaner exposes the underlying cache for a cache.Manager, or nil when
// caching is disabled.
func (p *CachedCatalogProvider) Cleaner() cache.Cleaner {
	if p.cache == nil {
		return nil
	}
	return p.cache
}
