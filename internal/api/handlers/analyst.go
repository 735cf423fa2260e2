package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
)

// maxFeatured caps ?n= on the featured endpoint
const maxFeatured = 20

// AnalystService is the directory surface the handler needs
type AnalystService interface {
	Search(ctx context.Context, term string) ([]contracts.Analyst, error)
	Profile(ctx context.Context, id int64) (*contracts.AnalystProfile, error)
	CachedFeatured(ctx context.Context, n int) ([]contracts.Analyst, error)
}

// AnalystHandler handles analyst directory endpoints
// ⭐ SSOT: 애널리스트 API 핸들러는 이 구조체에서만
type AnalystHandler struct {
	service AnalystService
	logger  *logger.Logger
}

// NewAnalystHandler creates a new analyst handler
func NewAnalystHandler(service AnalystService, log *logger.Logger) *AnalystHandler {
	return &AnalystHandler{
		service: service,
		logger:  log,
	}
}

// Search returns name suggestions
// GET /api/analysts/search?q=
func (h *AnalystHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	analysts, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithField("q", term).Error("Failed to search analysts")
		respondError(w, http.StatusInternalServerError, "Failed to search analysts")
		return
	}

	respondJSON(w, http.StatusOK, analysts)
}

// Featured returns a random sample for the landing page
// GET /api/analysts/featured?n=
func (h *AnalystHandler) Featured(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = min(parsed, maxFeatured)
		}
	}

	analysts, err := h.service.CachedFeatured(r.Context(), n)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("Failed to get featured analysts")
		respondError(w, http.StatusInternalServerError, "Failed to get featured analysts")
		return
	}

	respondJSON(w, http.StatusOK, analysts)
}

// Profile returns the analyst header and LinkedIn box
// GET /api/analysts/{id}
func (h *AnalystHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid analyst id")
		return
	}

	profile, err := h.service.Profile(r.Context(), id)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Analyst not found")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithField("analyst_id", id).Error("Failed to get analyst")
		respondError(w, http.StatusInternalServerError, "Failed to get analyst")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
