package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/internal/earnings"
	"github.com/wonny/analystlens/internal/insights"
	"github.com/wonny/analystlens/pkg/logger"
)

// Analyzer is the LLM surface the handlers need
type Analyzer interface {
	Configured() bool
	Scorecard(ctx context.Context, analystID int64, analystName string, questions []string) (*insights.Scorecard, error)
	Chat(ctx context.Context, commentary string, messages []insights.Message) (string, error)
}

// InsightsHandler handles scorecard and chat endpoints
// ⭐ SSOT: LLM API 핸들러는 이 구조체에서만
type InsightsHandler struct {
	analyzer Analyzer
	analysts AnalystService
	earnings EarningsService
	logger   *logger.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(analyzer Analyzer, analysts AnalystService, earnings EarningsService, log *logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		analyzer: analyzer,
		analysts: analysts,
		earnings: earnings,
		logger:   log,
	}
}

// AnalyzeRequest is the ad-hoc scorecard body
type AnalyzeRequest struct {
	Questions   []string `json:"questions" validate:"required,min=1"`
	AnalystName string   `json:"analystName"`
}

// ChatRequest is the chat body. Context is the rendered commentary.
type ChatRequest struct {
	Messages []insights.Message `json:"messages" validate:"required,min=1,dive"`
	Context  string             `json:"context"`
}

// ChatResponse carries the assistant reply
type ChatResponse struct {
	Message string `json:"message"`
}

// Analyze scores an analyst from the questions in the body
// POST /api/analyze-analyst
func (h *InsightsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondError(w, http.StatusBadRequest, "No questions provided")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.scorecard(w, r, 0, req.AnalystName, req.Questions)
}

// AnalystScorecard scores an analyst from every question on record
// POST /api/analysts/{id}/scorecard
func (h *InsightsHandler) AnalystScorecard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid analyst id")
		return
	}
	ctx := r.Context()

	profile, err := h.analysts.Profile(ctx, id)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Analyst not found")
		return
	}
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to get analyst")
		respondError(w, http.StatusInternalServerError, "Failed to analyze analyst")
		return
	}

	qs, err := h.earnings.All(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to get earnings questions")
		respondError(w, http.StatusInternalServerError, "Failed to analyze analyst")
		return
	}

	h.scorecard(w, r, id, profile.Analyst.FullName, earnings.QuestionTexts(qs))
}

func (h *InsightsHandler) scorecard(w http.ResponseWriter, r *http.Request, analystID int64, name string, questions []string) {
	card, err := h.analyzer.Scorecard(r.Context(), analystID, name, questions)
	if errors.Is(err, insights.ErrNoQuestions) {
		respondError(w, http.StatusBadRequest, "No questions provided")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).WithFields(map[string]interface{}{
			"analyst_id": analystID,
			"questions":  len(questions),
		}).Error("Error analyzing analyst")
		respondError(w, http.StatusInternalServerError, "Failed to analyze analyst")
		return
	}

	respondJSON(w, http.StatusOK, card)
}

// Chat answers a question about the analyst's commentary
// POST /api/chat
func (h *InsightsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	decodeErr := decodeJSON(r, &req)

	if !h.analyzer.Configured() {
		respondError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}
	if decodeErr != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.analyzer.Chat(r.Context(), req.Context, req.Messages)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("Chat API error")
		respondError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Message: reply})
}

// AnalystChat answers a question about one analyst's commentary.
// An empty body context is filled from every question on record.
// POST /api/analysts/{id}/chat
func (h *InsightsHandler) AnalystChat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid analyst id")
		return
	}

	var req ChatRequest
	decodeErr := decodeJSON(r, &req)

	if !h.analyzer.Configured() {
		respondError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}
	if decodeErr != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ctx := r.Context()

	if _, err := h.analysts.Profile(ctx, id); err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Analyst not found")
			return
		}
		h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to get analyst")
		respondError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	commentary := req.Context
	if strings.TrimSpace(commentary) == "" {
		commentary, err = h.earnings.ChatContext(ctx, id)
		if err != nil {
			h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Failed to build chat context")
			respondError(w, http.StatusInternalServerError, "Failed to process chat request")
			return
		}
	}

	reply, err := h.analyzer.Chat(ctx, commentary, req.Messages)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("analyst_id", id).Error("Chat API error")
		respondError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Message: reply})
}
