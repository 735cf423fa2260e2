package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/wonny/analystlens/internal/chart"
	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/internal/prediction"
	"github.com/wonny/analystlens/pkg/logger"
)

// PredictionService is the history surface the handler needs
type PredictionService interface {
	Page(ctx context.Context, analystID int64, page int) (*prediction.History, error)
	Metrics(ctx context.Context, predictionID int64) (*contracts.PredictionWithMetrics, error)
}

// PredictionHandler handles prediction history endpoints
// ⭐ SSOT: 예측 API 핸들러는 이 구조체에서만
type PredictionHandler struct {
	service PredictionService
	logger  *logger.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(service PredictionService, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		logger:  log,
	}
}

// PredictionDetail is a prediction with metrics and its chart
type PredictionDetail struct {
	contracts.PredictionWithMetrics
	ChartURL string `json:"chart_url"`
}

// List returns one page of an analyst's predictions
// GET /api/analysts/{id}/predictions?page=
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid analyst id")
		return
	}
	page := queryPage(r)

	history, err := h.service.Page(r.Context(), id, page)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithFields(map[string]interface{}{
			"analyst_id": id,
			"page":       page,
		}).Error("Failed to get predictions")
		respondError(w, http.StatusInternalServerError, "Failed to get predictions")
		return
	}

	// JSON cannot carry ±Inf from a zero target
	for i := range history.Items {
		history.Items[i].PredictionMetrics = history.Items[i].PredictionMetrics.Finite()
	}

	respondJSON(w, http.StatusOK, history)
}

// Get returns one prediction with metrics and chart URL
// GET /api/predictions/{id}
func (h *PredictionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prediction id")
		return
	}

	p, err := h.service.Metrics(r.Context(), id)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Prediction not found")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithField("prediction_id", id).Error("Failed to get prediction")
		respondError(w, http.StatusInternalServerError, "Failed to get prediction")
		return
	}

	p.PredictionMetrics = p.PredictionMetrics.Finite()
	respondJSON(w, http.StatusOK, PredictionDetail{
		PredictionWithMetrics: *p,
		ChartURL:              chart.EmbedURL(p.Ticker),
	})
}
