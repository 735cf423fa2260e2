package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value.
// A missing key reports (false, nil); transport errors are returned.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Predefined TTLs
const (
	TTLLong  = 1 * time.Hour
	TTLDaily = 24 * time.Hour
)

// PriceLookupKey keys a single start/end lookup. side is "first" or "last".
func PriceLookupKey(ticker, side, date string) string {
	return fmt.Sprintf("price:%s:%s:%s", ticker, side, date)
}

// FeaturedAnalystsKey holds the landing-page sample
func FeaturedAnalystsKey() string {
	return "analysts:featured"
}

// ScorecardKey keys a scorecard by analyst and question-set digest
func ScorecardKey(analystID int64, digest string) string {
	return fmt.Sprintf("scorecard:%d:%s", analystID, digest)
}
