package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/analystlens/internal/accuracy"
	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/internal/earnings"
	"github.com/wonny/analystlens/internal/insights"
	"github.com/wonny/analystlens/internal/prediction"
	"github.com/wonny/analystlens/pkg/database"
	"github.com/wonny/analystlens/pkg/logger"
)

// ---- fakes ----

type fakeAnalysts struct {
	searchTerm string
	featuredN  int
	err        error
}

func (f *fakeAnalysts) Search(_ context.Context, term string) ([]contracts.Analyst, error) {
	f.searchTerm = term
	if f.err != nil {
		return nil, f.err
	}
	return []contracts.Analyst{{ID: 1, FullName: "Jane Smith"}}, nil
}

func (f *fakeAnalysts) Profile(_ context.Context, id int64) (*contracts.AnalystProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != 1 {
		return nil, contracts.ErrNotFound
	}
	return &contracts.AnalystProfile{Analyst: contracts.Analyst{ID: 1, FullName: "Jane Smith"}}, nil
}

func (f *fakeAnalysts) CachedFeatured(_ context.Context, n int) ([]contracts.Analyst, error) {
	f.featuredN = n
	return []contracts.Analyst{{ID: 3}, {ID: 4}}, nil
}

type fakePredictions struct {
	page    int
	history *prediction.History
	err     error
}

func (f *fakePredictions) Page(_ context.Context, _ int64, page int) (*prediction.History, error) {
	f.page = page
	return f.history, f.err
}

func (f *fakePredictions) Metrics(_ context.Context, id int64) (*contracts.PredictionWithMetrics, error) {
	if id != 7 {
		return nil, contracts.ErrNotFound
	}
	inf := math.Inf(-1)
	return &contracts.PredictionWithMetrics{
		Prediction:        contracts.Prediction{ID: 7, Ticker: "AAPL"},
		PredictionMetrics: contracts.PredictionMetrics{AccuracyPct: &inf, AccuracyBand: contracts.AccuracyOff},
	}, nil
}

type fakeEarnings struct {
	questions []contracts.EarningsQuestion
	page      int
	ctxCalls  int
	ctxErr    error
}

func (f *fakeEarnings) Page(_ context.Context, _ int64, page int) (contracts.Page[contracts.EarningsQuestion], error) {
	f.page = page
	return contracts.NewPage(f.questions, page, 10, len(f.questions)), nil
}

func (f *fakeEarnings) All(context.Context, int64) ([]contracts.EarningsQuestion, error) {
	return f.questions, nil
}

func (f *fakeEarnings) ChatContext(context.Context, int64) (string, error) {
	f.ctxCalls++
	if f.ctxErr != nil {
		return "", f.ctxErr
	}
	return earnings.BuildChatContext(f.questions), nil
}

type fakeAnalyzer struct {
	configured bool
	err        error
	gotID      int64
	gotName    string
	gotQs      []string
	gotMsgs    []insights.Message
	gotContext string
}

func (f *fakeAnalyzer) Configured() bool { return f.configured }

func (f *fakeAnalyzer) Scorecard(_ context.Context, id int64, name string, qs []string) (*insights.Scorecard, error) {
	f.gotID, f.gotName, f.gotQs = id, name, qs
	if len(qs) == 0 {
		return nil, insights.ErrNoQuestions
	}
	if f.err != nil {
		return nil, f.err
	}
	return &insights.Scorecard{AnalystName: &name, OverallStyleLabel: "polite-and-generic"}, nil
}

func (f *fakeAnalyzer) Chat(_ context.Context, commentary string, msgs []insights.Message) (string, error) {
	f.gotContext, f.gotMsgs = commentary, msgs
	if f.err != nil {
		return "", f.err
	}
	return "They ask about margins.", nil
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) (*database.HealthStatus, error) {
	return &database.HealthStatus{Healthy: f.err == nil}, f.err
}

// ---- helpers ----

func serve(h http.HandlerFunc, method, target string, body string, vars map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// ---- analyst ----

func TestAnalystHandler_Search(t *testing.T) {
	svc := &fakeAnalysts{}
	h := NewAnalystHandler(svc, logger.Nop())

	rec := serve(h.Search, http.MethodGet, "/api/analysts/search?q=jane", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane", svc.searchTerm)
	assert.Contains(t, rec.Body.String(), `"full_name":"Jane Smith"`)
}

func TestAnalystHandler_SearchError(t *testing.T) {
	h := NewAnalystHandler(&fakeAnalysts{err: errors.New("db down")}, logger.Nop())

	rec := serve(h.Search, http.MethodGet, "/api/analysts/search?q=jane", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalystHandler_Featured(t *testing.T) {
	tests := []struct {
		query string
		wantN int
	}{
		{"", 0},
		{"?n=3", 3},
		{"?n=500", maxFeatured},
		{"?n=abc", 0},
		{"?n=-2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakeAnalysts{}
			h := NewAnalystHandler(svc, logger.Nop())

			rec := serve(h.Featured, http.MethodGet, "/api/analysts/featured"+tt.query, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantN, svc.featuredN)
		})
	}
}

func TestAnalystHandler_Profile(t *testing.T) {
	h := NewAnalystHandler(&fakeAnalysts{}, logger.Nop())

	rec := serve(h.Profile, http.MethodGet, "/api/analysts/1", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["linkedin"])

	rec = serve(h.Profile, http.MethodGet, "/api/analysts/2", "", map[string]string{"id": "2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h.Profile, http.MethodGet, "/api/analysts/abc", "", map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.Profile, http.MethodGet, "/api/analysts/0", "", map[string]string{"id": "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- predictions ----

func TestPredictionHandler_List(t *testing.T) {
	inf := math.Inf(1)
	ret := 4.0
	items := []contracts.PredictionWithMetrics{
		{Prediction: contracts.Prediction{ID: 1}, PredictionMetrics: contracts.PredictionMetrics{ReturnPct: &ret, AccuracyPct: &inf}},
	}
	svc := &fakePredictions{history: &prediction.History{
		Page:    contracts.NewPage(items, 2, 10, 25),
		Summary: accuracy.Summary{Count: 1},
	}}
	h := NewPredictionHandler(svc, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/predictions?page=2", "", map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, svc.page)

	body := decode(t, rec)
	assert.Equal(t, float64(25), body["total"])
	assert.Equal(t, float64(21), body["from"])
	assert.NotNil(t, body["summary"])

	item := body["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 4.0, item["return_pct"])
	assert.Nil(t, item["accuracy_pct"], "non-finite values are null")
	assert.Nil(t, item["start_price"])
}

func TestPredictionHandler_ListBadPageIsZero(t *testing.T) {
	svc := &fakePredictions{history: &prediction.History{Page: contracts.NewPage[contracts.PredictionWithMetrics](nil, 0, 10, 0)}}
	h := NewPredictionHandler(svc, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/predictions?page=x", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.page)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestPredictionHandler_ListHugePageIsClamped(t *testing.T) {
	svc := &fakePredictions{history: &prediction.History{Page: contracts.NewPage[contracts.PredictionWithMetrics](nil, 0, 10, 0)}}
	h := NewPredictionHandler(svc, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/predictions?page=9223372036854775807", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxQueryPage, svc.page)
	assert.LessOrEqual(t, svc.page*1000, math.MaxInt32, "offset for the largest page size stays in int32")
}

func TestPredictionHandler_ListError(t *testing.T) {
	h := NewPredictionHandler(&fakePredictions{err: errors.New("lookup failed")}, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/predictions", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPredictionHandler_Get(t *testing.T) {
	h := NewPredictionHandler(&fakePredictions{}, logger.Nop())

	rec := serve(h.Get, http.MethodGet, "/api/predictions/7", "", map[string]string{"id": "7"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(7), body["prediction_id"])
	assert.Contains(t, body["chart_url"], "symbol=AAPL")
	assert.Nil(t, body["accuracy_pct"])
	assert.Nil(t, body["accuracy_band"])

	rec = serve(h.Get, http.MethodGet, "/api/predictions/8", "", map[string]string{"id": "8"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- earnings ----

func TestEarningsHandler_List(t *testing.T) {
	svc := &fakeEarnings{questions: []contracts.EarningsQuestion{{ID: 1, Ticker: "AAPL"}}}
	h := NewEarningsHandler(svc, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/earnings?page=1", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.page)

	rec = serve(h.List, http.MethodGet, "/api/analysts/1/earnings?all=true", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["total"])
}

func TestEarningsHandler_AllEmpty(t *testing.T) {
	h := NewEarningsHandler(&fakeEarnings{}, logger.Nop())

	rec := serve(h.List, http.MethodGet, "/api/analysts/1/earnings?all=true", "", map[string]string{"id": "1"})
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

// ---- insights ----

func TestInsightsHandler_Analyze(t *testing.T) {
	az := &fakeAnalyzer{configured: true}
	h := NewInsightsHandler(az, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

	rec := serve(h.Analyze, http.MethodPost, "/api/analyze-analyst",
		`{"questions":["Margins?","Capex?"],"analystName":"Jane Smith"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Margins?", "Capex?"}, az.gotQs)
	assert.Equal(t, int64(0), az.gotID)
	body := decode(t, rec)
	assert.Equal(t, "Jane Smith", body["analyst_name"])
}

func TestInsightsHandler_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"empty questions", `{"questions":[]}`, nil, http.StatusBadRequest, "No questions provided"},
		{"missing questions", `{"analystName":"x"}`, nil, http.StatusBadRequest, "No questions provided"},
		{"bad json", `{`, nil, http.StatusBadRequest, "Invalid request body"},
		{"upstream failure", `{"questions":["q"]}`, errors.New("boom"), http.StatusInternalServerError, "Failed to analyze analyst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewInsightsHandler(&fakeAnalyzer{configured: true, err: tt.err}, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

			rec := serve(h.Analyze, http.MethodPost, "/api/analyze-analyst", tt.body, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestInsightsHandler_AnalystScorecard(t *testing.T) {
	az := &fakeAnalyzer{configured: true}
	ev := &fakeEarnings{questions: []contracts.EarningsQuestion{{Text: "Margins?"}, {Text: " "}, {Text: "Capex?"}}}
	h := NewInsightsHandler(az, &fakeAnalysts{}, ev, logger.Nop())

	rec := serve(h.AnalystScorecard, http.MethodPost, "/api/analysts/1/scorecard", "", map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), az.gotID)
	assert.Equal(t, "Jane Smith", az.gotName)
	assert.Equal(t, []string{"Margins?", "Capex?"}, az.gotQs)

	rec = serve(h.AnalystScorecard, http.MethodPost, "/api/analysts/2/scorecard", "", map[string]string{"id": "2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsightsHandler_AnalystScorecardNoQuestions(t *testing.T) {
	h := NewInsightsHandler(&fakeAnalyzer{configured: true}, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

	rec := serve(h.AnalystScorecard, http.MethodPost, "/api/analysts/1/scorecard", "", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsHandler_Chat(t *testing.T) {
	az := &fakeAnalyzer{configured: true}
	h := NewInsightsHandler(az, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

	rec := serve(h.Chat, http.MethodPost, "/api/chat",
		`{"messages":[{"role":"user","content":"What do they ask about?"}],"context":"[2023-01-01 - AAPL]\nq\n"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "They ask about margins.", decode(t, rec)["message"])
	assert.Equal(t, "[2023-01-01 - AAPL]\nq\n", az.gotContext)
	require.Len(t, az.gotMsgs, 1)
}

func TestInsightsHandler_ChatErrors(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		err        error
		body       string
		wantCode   int
		wantMsg    string
	}{
		{"not configured", false, nil, `{"messages":[{"role":"user","content":"hi"}]}`, http.StatusInternalServerError, "OpenAI API key not configured"},
		{"no messages", true, nil, `{"messages":[]}`, http.StatusBadRequest, "Invalid request body"},
		{"bad role", true, nil, `{"messages":[{"role":"tool","content":"hi"}]}`, http.StatusBadRequest, "Invalid request body"},
		{"upstream", true, errors.New("timeout"), `{"messages":[{"role":"user","content":"hi"}]}`, http.StatusInternalServerError, "Failed to process chat request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewInsightsHandler(&fakeAnalyzer{configured: tt.configured, err: tt.err}, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

			rec := serve(h.Chat, http.MethodPost, "/api/chat", tt.body, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestInsightsHandler_ChatAcceptsSystemTurn(t *testing.T) {
	az := &fakeAnalyzer{configured: true}
	h := NewInsightsHandler(az, &fakeAnalysts{}, &fakeEarnings{}, logger.Nop())

	rec := serve(h.Chat, http.MethodPost, "/api/chat",
		`{"messages":[{"role":"system","content":"Answer in one sentence."},{"role":"user","content":"hi"}]}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, az.gotMsgs, 2)
	assert.Equal(t, insights.RoleSystem, az.gotMsgs[0].Role)
}

func TestInsightsHandler_AnalystChatBuildsContext(t *testing.T) {
	asked := time.Date(2023, 4, 27, 0, 0, 0, 0, time.UTC)
	az := &fakeAnalyzer{configured: true}
	ev := &fakeEarnings{questions: []contracts.EarningsQuestion{{Ticker: "AAPL", Text: "Margins?", AskedAt: &asked}}}
	h := NewInsightsHandler(az, &fakeAnalysts{}, ev, logger.Nop())

	rec := serve(h.AnalystChat, http.MethodPost, "/api/analysts/1/chat",
		`{"messages":[{"role":"user","content":"What do they ask about?"}]}`, map[string]string{"id": "1"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "They ask about margins.", decode(t, rec)["message"])
	assert.Equal(t, "[2023-04-27 - AAPL]\nMargins?\n", az.gotContext)
	assert.Equal(t, 1, ev.ctxCalls)
}

func TestInsightsHandler_AnalystChatKeepsBodyContext(t *testing.T) {
	az := &fakeAnalyzer{configured: true}
	ev := &fakeEarnings{questions: []contracts.EarningsQuestion{{Ticker: "AAPL", Text: "Margins?"}}}
	h := NewInsightsHandler(az, &fakeAnalysts{}, ev, logger.Nop())

	rec := serve(h.AnalystChat, http.MethodPost, "/api/analysts/1/chat",
		`{"messages":[{"role":"user","content":"hi"}],"context":"filtered"}`, map[string]string{"id": "1"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "filtered", az.gotContext)
	assert.Zero(t, ev.ctxCalls)
}

func TestInsightsHandler_AnalystChatErrors(t *testing.T) {
	msg := `{"messages":[{"role":"user","content":"hi"}]}`
	tests := []struct {
		name       string
		id         string
		configured bool
		ctxErr     error
		body       string
		wantCode   int
		wantMsg    string
	}{
		{"bad id", "x", true, nil, msg, http.StatusBadRequest, "Invalid analyst id"},
		{"not configured", "1", false, nil, msg, http.StatusInternalServerError, "OpenAI API key not configured"},
		{"no messages", "1", true, nil, `{"messages":[]}`, http.StatusBadRequest, "Invalid request body"},
		{"unknown analyst", "2", true, nil, msg, http.StatusNotFound, "Analyst not found"},
		{"context failure", "1", true, errors.New("db down"), msg, http.StatusInternalServerError, "Failed to process chat request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewInsightsHandler(&fakeAnalyzer{configured: tt.configured}, &fakeAnalysts{}, &fakeEarnings{ctxErr: tt.ctxErr}, logger.Nop())

			rec := serve(h.AnalystChat, http.MethodPost, "/api/analysts/"+tt.id+"/chat", tt.body, map[string]string{"id": tt.id})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

// ---- health ----

func TestHealthHandler(t *testing.T) {
	rec := serve(NewHealthHandler(fakeHealth{}, "analystlens-api").Check, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = serve(NewHealthHandler(fakeHealth{err: errors.New("down")}, "analystlens-api").Check, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec)["status"])

	rec = serve(NewHealthHandler(nil, "analystlens-api").Check, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
