package prices

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/metrics"
	"github.com/wonny/analystlens/pkg/redis"
)

// fakeLookup serves prices from a map and counts calls
type fakeLookup struct {
	mu    sync.Mutex
	first map[string]*contracts.PricePoint
	last  map[string]*contracts.PricePoint
	err   error
	calls int
}

func (f *fakeLookup) FirstOnOrAfter(_ context.Context, ticker string, _ time.Time) (*contracts.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.first[ticker], nil
}

func (f *fakeLookup) LastOnOrBefore(_ context.Context, ticker string, _ time.Time) (*contracts.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.last[ticker], nil
}

func newTestCache(t *testing.T) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client, err := redis.Dial(s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewCache(client, "test"), s
}

var day = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCachedLookup_CachesHits(t *testing.T) {
	cache, _ := newTestCache(t)
	inner := &fakeLookup{first: map[string]*contracts.PricePoint{
		"AAPL": {Ticker: "AAPL", Date: day, Price: 145.3},
	}}
	lookup := NewCachedLookup(inner, cache, nil, logger.Nop())
	ctx := context.Background()

	p, err := lookup.FirstOnOrAfter(ctx, "AAPL", day)
	require.NoError(t, err)
	require.NotNil(t, p)

	again, err := lookup.FirstOnOrAfter(ctx, "AAPL", day)
	require.NoError(t, err)
	require.NotNil(t, again)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 145.3, again.Price)
	assert.True(t, again.Date.Equal(day))
}

func TestCachedLookup_CachesMisses(t *testing.T) {
	cache, s := newTestCache(t)
	inner := &fakeLookup{}
	lookup := NewCachedLookup(inner, cache, nil, logger.Nop())
	ctx := context.Background()

	p, err := lookup.LastOnOrBefore(ctx, "ZZZZ", day)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = lookup.LastOnOrBefore(ctx, "ZZZZ", day)
	require.NoError(t, err)
	assert.Nil(t, p, "a cached miss stays a miss, never a zero price")
	assert.Equal(t, 1, inner.calls)

	key := "test:cache:" + redis.PriceLookupKey("ZZZZ", SideLast, "2023-03-01")
	assert.True(t, s.Exists(key))
	assert.Equal(t, missTTL, s.TTL(key))
}

func TestCachedLookup_SidesAreSeparate(t *testing.T) {
	cache, _ := newTestCache(t)
	inner := &fakeLookup{
		first: map[string]*contracts.PricePoint{"MSFT": {Ticker: "MSFT", Date: day, Price: 250}},
		last:  map[string]*contracts.PricePoint{"MSFT": {Ticker: "MSFT", Date: day.AddDate(0, 0, -1), Price: 248}},
	}
	lookup := NewCachedLookup(inner, cache, nil, logger.Nop())
	ctx := context.Background()

	first, err := lookup.FirstOnOrAfter(ctx, "MSFT", day)
	require.NoError(t, err)
	last, err := lookup.LastOnOrBefore(ctx, "MSFT", day)
	require.NoError(t, err)

	assert.Equal(t, 250.0, first.Price)
	assert.Equal(t, 248.0, last.Price)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedLookup_ErrorsAreNotCached(t *testing.T) {
	cache, _ := newTestCache(t)
	inner := &fakeLookup{err: errors.New("connection reset")}
	lookup := NewCachedLookup(inner, cache, nil, logger.Nop())
	ctx := context.Background()

	_, err := lookup.FirstOnOrAfter(ctx, "AAPL", day)
	require.Error(t, err)

	inner.err = nil
	p, err := lookup.FirstOnOrAfter(ctx, "AAPL", day)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedLookup_RedisDownFallsThrough(t *testing.T) {
	cache, s := newTestCache(t)
	inner := &fakeLookup{first: map[string]*contracts.PricePoint{
		"IBM": {Ticker: "IBM", Date: day, Price: 130},
	}}
	lookup := NewCachedLookup(inner, cache, nil, logger.Nop())

	s.Close()

	p, err := lookup.FirstOnOrAfter(context.Background(), "IBM", day)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 130.0, p.Price)
}

func TestCachedLookup_DisabledCache(t *testing.T) {
	inner := &fakeLookup{}
	lookup := NewCachedLookup(inner, redis.NewCache(redis.Disabled(), "test"), nil, logger.Nop())
	ctx := context.Background()

	_, _ = lookup.FirstOnOrAfter(ctx, "AAPL", day)
	_, _ = lookup.FirstOnOrAfter(ctx, "AAPL", day)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedLookup_Metrics(t *testing.T) {
	cache, _ := newTestCache(t)
	m := metrics.New()
	lookup := NewCachedLookup(&fakeLookup{}, cache, m, logger.Nop())
	ctx := context.Background()

	_, _ = lookup.FirstOnOrAfter(ctx, "AAPL", day)
	_, _ = lookup.FirstOnOrAfter(ctx, "AAPL", day)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `analystlens_price_lookups_total{outcome="miss",side="first"} 1`)
	assert.Contains(t, body, `analystlens_price_lookups_total{outcome="cache",side="first"} 1`)
}
