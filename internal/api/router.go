package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/analystlens/internal/api/handlers"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/metrics"
)

// Dependencies are the handlers and cross-cutting pieces the router wires
type Dependencies struct {
	Health     *handlers.HealthHandler
	Analyst    *handlers.AnalystHandler
	Prediction *handlers.PredictionHandler
	Earnings   *handlers.EarningsHandler
	Insights   *handlers.InsightsHandler

	// Metrics may be nil; /metrics is only mounted when set
	Metrics *metrics.Metrics
	// Limiter may be nil; LLM routes are then unlimited
	Limiter          RateLimiter
	LLMRatePerMinute int
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(deps Dependencies, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", deps.Health.Check).Methods("GET")
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Analyst directory (static paths before {id})
	api.HandleFunc("/analysts/search", deps.Analyst.Search).Methods("GET")
	api.HandleFunc("/analysts/featured", deps.Analyst.Featured).Methods("GET")
	api.HandleFunc("/analysts/{id}", deps.Analyst.Profile).Methods("GET")
	api.HandleFunc("/analysts/{id}/predictions", deps.Prediction.List).Methods("GET")
	api.HandleFunc("/analysts/{id}/earnings", deps.Earnings.List).Methods("GET")
	api.HandleFunc("/predictions/{id}", deps.Prediction.Get).Methods("GET")

	// LLM endpoints
	limit := llmRateLimitMiddleware(deps.Limiter, deps.LLMRatePerMinute, log)
	api.Handle("/analyze-analyst", limit(http.HandlerFunc(deps.Insights.Analyze))).Methods("POST")
	api.Handle("/chat", limit(http.HandlerFunc(deps.Insights.Chat))).Methods("POST")
	api.Handle("/analysts/{id}/scorecard", limit(http.HandlerFunc(deps.Insights.AnalystScorecard))).Methods("POST")
	api.Handle("/analysts/{id}/chat", limit(http.HandlerFunc(deps.Insights.AnalystChat))).Methods("POST")

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log, deps.Metrics))
	r.Use(recoveryMiddleware(log))

	return r
}
