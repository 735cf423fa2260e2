package commands

import (
	"fmt"
	"io"

	"github.com/wonny/analystlens/internal/analyst"
	"github.com/wonny/analystlens/internal/earnings"
	"github.com/wonny/analystlens/internal/insights"
	"github.com/wonny/analystlens/internal/prediction"
	"github.com/wonny/analystlens/internal/prices"
	"github.com/wonny/analystlens/pkg/config"
	"github.com/wonny/analystlens/pkg/database"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/metrics"
	"github.com/wonny/analystlens/pkg/redis"
)

// keyPrefix namespaces every Redis key this service writes
const keyPrefix = "analystlens"

// app holds the wired services shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	metrics *metrics.Metrics

	analysts    *analyst.Service
	predictions *prediction.Service
	earnings    *earnings.Service
	analyzer    *insights.Analyzer
}

// newApp loads config and wires repositories and services.
// Logs go to logOut so CLI tables on stdout stay clean.
func newApp(logOut io.Writer) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// 2. Initialize logger
	log := logger.NewWithWriter(cfg, logOut)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Redis is optional; a failed dial degrades to no caching
	rc, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
		rc = redis.Disabled()
	}
	cache := redis.NewCache(rc, keyPrefix)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// 5. Repositories and services
	priceLookup := prices.NewCachedLookup(prices.NewRepository(db.Pool), cache, m, log)

	analysts := analyst.NewService(analyst.NewRepository(db.Pool), cache, log,
		analyst.WithSearchLimit(cfg.Dashboard.SearchLimit),
		analyst.WithFeaturedCount(cfg.Dashboard.FeaturedCount),
	)
	predictions := prediction.NewService(prediction.NewRepository(db.Pool), priceLookup, log,
		cfg.Dashboard.PageSize, cfg.Dashboard.LookupConcurrency)
	earningsSvc := earnings.NewService(earnings.NewRepository(db.Pool), cfg.Dashboard.PageSize)

	// 6. LLM completer (nil when no key is configured)
	var completer insights.Completer
	if cfg.OpenAI.Configured() {
		client, err := insights.NewOpenAIClient(cfg.OpenAI, m, log)
		if err != nil {
			db.Close()
			_ = rc.Close()
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		completer = client
		log.WithField("model", client.Model()).Info("LLM insights enabled")
	} else {
		log.Warn("OPENAI_API_KEY not set, LLM insights disabled")
	}

	return &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		redis:       rc,
		metrics:     m,
		analysts:    analysts,
		predictions: predictions,
		earnings:    earningsSvc,
		analyzer:    insights.NewAnalyzer(completer, cache, log),
	}, nil
}

// Close releases the pool and the Redis connection
func (a *app) Close() {
	a.db.Close()
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
