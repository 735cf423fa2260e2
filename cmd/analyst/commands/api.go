package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/analystlens/internal/api"
	"github.com/wonny/analystlens/internal/api/handlers"
	"github.com/wonny/analystlens/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                          - Health check
  GET  /metrics                         - Prometheus metrics
  GET  /api/analysts/search?q=          - 애널리스트 검색
  GET  /api/analysts/featured           - 추천 애널리스트
  GET  /api/analysts/{id}               - 프로필 (LinkedIn 포함)
  GET  /api/analysts/{id}/predictions   - 예측 이력 + 수익률/정확도
  GET  /api/analysts/{id}/earnings      - 어닝콜 질문
  GET  /api/predictions/{id}            - 예측 상세 + 차트
  POST /api/analysts/{id}/scorecard     - LLM 스코어카드
  POST /api/analyze-analyst             - 질문 목록 스코어카드
  POST /api/chat                        - 애널리스트 컨텍스트 채팅

Example:
  go run ./cmd/analyst api
  go run ./cmd/analyst api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":  a.cfg.Port,
		"redis": a.redis.Enabled(),
		"llm":   a.analyzer.Configured(),
	}).Info("Initializing API server")

	deps := api.Dependencies{
		Health:           handlers.NewHealthHandler(a.db, "analystlens"),
		Analyst:          handlers.NewAnalystHandler(a.analysts, log),
		Prediction:       handlers.NewPredictionHandler(a.predictions, log),
		Earnings:         handlers.NewEarningsHandler(a.earnings, log),
		Insights:         handlers.NewInsightsHandler(a.analyzer, a.analysts, a.earnings, log),
		Metrics:          a.metrics,
		LLMRatePerMinute: a.cfg.Dashboard.LLMRateLimitPerMin,
	}
	if a.redis.Enabled() && a.cfg.Dashboard.LLMRateLimitPerMin > 0 {
		deps.Limiter = redis.NewRateLimiter(a.redis, keyPrefix)
	}

	server := api.New(a.cfg, log, api.NewRouter(deps, log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.WithField("addr", server.Addr()).Info("API server started")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
