package prediction

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/analystlens/internal/accuracy"
	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
)

const (
	// DefaultPageSize matches the dashboard table
	DefaultPageSize = 10
	// DefaultLookupConcurrency bounds in-flight price lookups per page
	DefaultLookupConcurrency = 8
)

// History is one page of predictions with metrics and its scoreline
type History struct {
	contracts.Page[contracts.PredictionWithMetrics]
	Summary accuracy.Summary `json:"summary"`
}

// Service joins predictions with their bracketing prices
type Service struct {
	store       contracts.PredictionStore
	prices      contracts.PriceLookup
	log         *logger.Logger
	pageSize    int
	concurrency int
}

// NewService creates a Service. Non-positive sizes fall back to the defaults.
func NewService(store contracts.PredictionStore, prices contracts.PriceLookup, log *logger.Logger, pageSize, concurrency int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if concurrency <= 0 {
		concurrency = DefaultLookupConcurrency
	}
	return &Service{
		store:       store,
		prices:      prices,
		log:         log.WithComponent("prediction.service"),
		pageSize:    pageSize,
		concurrency: concurrency,
	}
}

// PageSize returns the configured page size
func (s *Service) PageSize() int {
	return s.pageSize
}

// Page returns the zero-based page of an analyst's predictions, newest
// first, each with derived metrics. A failed lookup fails the page; a
// missing price only leaves that prediction's metrics absent.
func (s *Service) Page(ctx context.Context, analystID int64, page int) (*History, error) {
	if page < 0 {
		page = 0
	}
	start := time.Now()

	total, err := s.store.CountByAnalyst(ctx, analystID)
	if err != nil {
		return nil, err
	}

	preds, err := s.store.PageByAnalyst(ctx, analystID, contracts.Offset(page, s.pageSize), s.pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, preds)
	if err != nil {
		return nil, fmt.Errorf("analyst %d page %d: %w", analystID, page, err)
	}

	metrics := make([]contracts.PredictionMetrics, len(items))
	for i := range items {
		metrics[i] = items[i].PredictionMetrics
	}

	s.log.WithFields(map[string]interface{}{
		"analyst_id": analystID,
		"page":       page,
		"items":      len(items),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("prediction page built")

	return &History{
		Page:    contracts.NewPage(items, page, s.pageSize, total),
		Summary: accuracy.Summarize(metrics),
	}, nil
}

// Metrics returns a single prediction with its metrics
func (s *Service) Metrics(ctx context.Context, predictionID int64) (*contracts.PredictionWithMetrics, error) {
	p, err := s.store.GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, []contracts.Prediction{*p})
	if err != nil {
		return nil, fmt.Errorf("prediction %d: %w", predictionID, err)
	}
	return &items[0], nil
}

// enrich looks up start and end prices for every prediction concurrently
// and derives the metrics. Output order matches input order.
func (s *Service) enrich(ctx context.Context, preds []contracts.Prediction) ([]contracts.PredictionWithMetrics, error) {
	starts := make([]*contracts.PricePoint, len(preds))
	ends := make([]*contracts.PricePoint, len(preds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range preds {
		p := preds[i]
		// without a ticker or an announcement date there is no window to price
		if p.Ticker == "" || p.AnnouncedAt.IsZero() {
			continue
		}
		endDate := accuracy.ComputeEndDate(p.AnnouncedAt.Time, p.Horizon)

		g.Go(func() error {
			pt, err := s.prices.FirstOnOrAfter(gctx, p.Ticker, p.AnnouncedAt.Time)
			if err != nil {
				return fmt.Errorf("start price for prediction %d: %w", p.ID, err)
			}
			starts[i] = pt
			return nil
		})
		g.Go(func() error {
			pt, err := s.prices.LastOnOrBefore(gctx, p.Ticker, endDate)
			if err != nil {
				return fmt.Errorf("end price for prediction %d: %w", p.ID, err)
			}
			ends[i] = pt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]contracts.PredictionWithMetrics, len(preds))
	for i, p := range preds {
		items[i] = contracts.PredictionWithMetrics{
			Prediction:        p,
			PredictionMetrics: accuracy.Derive(p, starts[i], ends[i]),
		}
	}
	return items, nil
}
