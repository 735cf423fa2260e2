package prices

import (
	"context"
	"time"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/metrics"
	"github.com/wonny/analystlens/pkg/redis"
)

// Lookup sides, also used as metric labels and cache key parts
const (
	SideFirst = "first"
	SideLast  = "last"
)

// Cache TTLs. Historical prices do not move; misses may be filled by the
// next ingestion run, so they expire sooner.
const (
	hitTTL  = redis.TTLDaily
	missTTL = redis.TTLLong
)

// cachedPoint records a lookup result. Found=false caches "no price".
type cachedPoint struct {
	Found bool                  `json:"found"`
	Point *contracts.PricePoint `json:"point,omitempty"`
}

// CachedLookup wraps a PriceLookup with the redis cache.
// Cache failures are logged and fall through to the inner lookup.
type CachedLookup struct {
	inner   contracts.PriceLookup
	cache   *redis.Cache
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewCachedLookup creates a cached lookup. m may be nil.
func NewCachedLookup(inner contracts.PriceLookup, cache *redis.Cache, m *metrics.Metrics, log *logger.Logger) *CachedLookup {
	return &CachedLookup{
		inner:   inner,
		cache:   cache,
		metrics: m,
		log:     log.WithComponent("prices.cache"),
	}
}

// FirstOnOrAfter implements contracts.PriceLookup
func (c *CachedLookup) FirstOnOrAfter(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	return c.lookup(ctx, SideFirst, ticker, date, c.inner.FirstOnOrAfter)
}

// LastOnOrBefore implements contracts.PriceLookup
func (c *CachedLookup) LastOnOrBefore(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	return c.lookup(ctx, SideLast, ticker, date, c.inner.LastOnOrBefore)
}

type lookupFunc func(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error)

func (c *CachedLookup) lookup(ctx context.Context, side, ticker string, date time.Time, fn lookupFunc) (*contracts.PricePoint, error) {
	key := redis.PriceLookupKey(ticker, side, contracts.NewDate(date).String())

	var cached cachedPoint
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("price cache read failed")
	}
	if found {
		c.metrics.PriceLookup(side, metrics.LookupCache)
		if !cached.Found {
			return nil, nil
		}
		return cached.Point, nil
	}

	p, err := fn(ctx, ticker, date)
	if err != nil {
		c.metrics.PriceLookup(side, metrics.LookupError)
		return nil, err
	}

	ttl := hitTTL
	outcome := metrics.LookupHit
	if p == nil {
		ttl = missTTL
		outcome = metrics.LookupMiss
	}
	c.metrics.PriceLookup(side, outcome)

	if err := c.cache.Set(ctx, key, cachedPoint{Found: p != nil, Point: p}, ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("price cache write failed")
	}
	return p, nil
}
