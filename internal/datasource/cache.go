package datasource

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// CachedGateway fronts a Gateway with a short-TTL read cache so rules bound
// to the same source share one fetch per TTL window instead of hammering
// the backing service on every tick.
type CachedGateway struct {
	inner Gateway
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCachedGateway wraps inner with a cache using the given TTL per entry.
func NewCachedGateway(inner Gateway, ttl time.Duration) *CachedGateway {
	return &CachedGateway{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Fetch returns cached records when fresh, otherwise delegates to the inner
// gateway and caches the result. Fetch errors are never cached.
func (g *CachedGateway) Fetch(ctx context.Context, source entities.AlertDataSource) ([]Record, error) {
	key := source.CacheKey()
	if cached, found := g.cache.Get(key); found {
		if records, ok := cached.([]Record); ok {
			return records, nil
		}
	}

	records, err := g.inner.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	g.cache.Set(key, records, g.ttl)
	return records, nil
}

// Invalidate drops the cached entry for the given source.
func (g *CachedGateway) Invalidate(source entities.AlertDataSource) {
	g.cache.Delete(source.CacheKey())
}
