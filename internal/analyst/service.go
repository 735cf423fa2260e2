package analyst

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/redis"
)

const (
	// MinSearchLength is the shortest term that reaches the database
	MinSearchLength = 2
	// DefaultSearchLimit caps search-as-you-type suggestions
	DefaultSearchLimit = 10
	// DefaultFeaturedCount is the landing-page sample size
	DefaultFeaturedCount = 5
)

// Service composes directory reads for the API and CLI
type Service struct {
	store contracts.AnalystStore
	cache *redis.Cache
	log   *logger.Logger

	searchLimit   int
	featuredCount int

	// intn returns a uniform int in [0, n); swapped in tests
	intn func(n int) int
}

// Option configures a Service
type Option func(*Service)

// WithSearchLimit overrides DefaultSearchLimit
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithFeaturedCount overrides DefaultFeaturedCount
func WithFeaturedCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.featuredCount = n
		}
	}
}

// WithRand replaces the random offset source
func WithRand(intn func(n int) int) Option {
	return func(s *Service) { s.intn = intn }
}

// NewService creates a Service. cache may be a disabled cache.
func NewService(store contracts.AnalystStore, cache *redis.Cache, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		cache:         cache,
		log:           log.WithComponent("analyst.service"),
		searchLimit:   DefaultSearchLimit,
		featuredCount: DefaultFeaturedCount,
		intn:          rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to the search limit of analysts whose name contains term.
// Terms shorter than MinSearchLength return an empty list without a query.
func (s *Service) Search(ctx context.Context, term string) ([]contracts.Analyst, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < MinSearchLength {
		return []contracts.Analyst{}, nil
	}
	return s.store.Search(ctx, term, s.searchLimit)
}

// Profile returns the analyst with their LinkedIn profile when one exists
func (s *Service) Profile(ctx context.Context, id int64) (*contracts.AnalystProfile, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	li, err := s.store.GetLinkedIn(ctx, id)
	if err != nil {
		// profile box is optional; the header still renders
		s.log.WithError(err).WithField("analyst_id", id).Warn("linkedin lookup failed")
		li = nil
	}

	return &contracts.AnalystProfile{Analyst: *a, LinkedIn: li}, nil
}

// Featured draws a random sample of up to n distinct analysts.
// It makes at most min(2n, count) draws, so a small or unlucky draw
// can return fewer than n. n <= 0 uses the configured count.
func (s *Service) Featured(ctx context.Context, n int) ([]contracts.Analyst, error) {
	if n <= 0 {
		n = s.featuredCount
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]contracts.Analyst, 0, n)
	if count == 0 {
		return result, nil
	}

	attempts := min(2*n, count)
	seen := make(map[int64]struct{}, n)

	for i := 0; i < attempts && len(result) < n; i++ {
		a, err := s.store.AtOffset(ctx, s.intn(count))
		if err != nil {
			return nil, err
		}
		if a == nil {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		result = append(result, *a)
	}

	return result, nil
}

// CachedFeatured serves the sample stored by RefreshFeatured when it is large
// enough, and draws a fresh one otherwise.
func (s *Service) CachedFeatured(ctx context.Context, n int) ([]contracts.Analyst, error) {
	if n <= 0 {
		n = s.featuredCount
	}

	var cached []contracts.Analyst
	found, err := s.cache.Get(ctx, redis.FeaturedAnalystsKey(), &cached)
	if err != nil {
		s.log.WithError(err).Warn("featured cache read failed")
	}
	if found && len(cached) >= n {
		return cached[:n], nil
	}

	return s.Featured(ctx, n)
}

// RefreshFeatured draws a new sample and stores it for CachedFeatured
func (s *Service) RefreshFeatured(ctx context.Context) ([]contracts.Analyst, error) {
	sample, err := s.Featured(ctx, s.featuredCount)
	if err != nil {
		return nil, fmt.Errorf("draw featured analysts: %w", err)
	}

	if err := s.cache.Set(ctx, redis.FeaturedAnalystsKey(), sample, redis.TTLLong); err != nil {
		return nil, fmt.Errorf("store featured analysts: %w", err)
	}
	return sample, nil
}
