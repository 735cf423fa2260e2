package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
)

// EarningsService is the question surface the handlers need
type EarningsService interface {
	Page(ctx context.Context, analystID int64, page int) (contracts.Page[contracts.EarningsQuestion], error)
	All(ctx context.Context, analystID int64) ([]contracts.EarningsQuestion, error)
	ChatContext(ctx context.Context, analystID int64) (string, error)
}

// EarningsHandler handles earnings-call question endpoints
type EarningsHandler struct {
	service EarningsService
	logger  *logger.Logger
}

// NewEarningsHandler creates a new earnings handler
func NewEarningsHandler(service EarningsService, log *logger.Logger) *EarningsHandler {
	return &EarningsHandler{
		service: service,
		logger:  log,
	}
}

// AllQuestions is the ?all=true response
type AllQuestions struct {
	Items []contracts.EarningsQuestion `json:"items"`
	Total int                          `json:"total"`
}

// List returns a page of questions, or every question with ?all=true
// GET /api/analysts/{id}/earnings?page=&all=
func (h *EarningsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid analyst id")
		return
	}
	ctx := r.Context()

	if r.URL.Query().Get("all") == "true" {
		all, err := h.service.All(ctx, id)
		if err != nil {
			h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to get earnings questions")
			respondError(w, http.StatusInternalServerError, "Failed to get earnings questions")
			return
		}
		if all == nil {
			all = []contracts.EarningsQuestion{}
		}
		respondJSON(w, http.StatusOK, AllQuestions{Items: all, Total: len(all)})
		return
	}

	page, err := h.service.Page(ctx, id, queryPage(r))
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to get earnings questions")
		respondError(w, http.StatusInternalServerError, "Failed to get earnings questions")
		return
	}

	respondJSON(w, http.StatusOK, page)
}
