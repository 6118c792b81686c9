package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/middleware"
	"github.com/pageza/glucolog/backend/internal/mocks"
	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/service"
	"github.com/pageza/glucolog/backend/internal/store"
	"github.com/pageza/glucolog/backend/internal/testdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ts(s string) model.Timestamp {
	return model.MustTimestamp(s)
}

// setupRouter wires the real services over a seeded in-memory database
func setupRouter(t *testing.T, tokens middleware.TokenValidator) *gin.Engine {
	ctx := context.Background()
	s := store.New(testdb.SQLite(t))

	apple := model.NutritionItem{Name: "Apple", Kcal: 52, Weight: 100}
	require.NoError(t, s.CreateNutrition(ctx, &apple))
	require.NoError(t, s.CreateInsulin(ctx, &model.InsulinDose{Timestamp: ts("2024-03-04 08:00:00"), Level: 4}))
	require.NoError(t, s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: ts("2024-03-04 07:50:00"), Level: 101}))
	require.NoError(t, s.CreateIntake(ctx, &model.NutritionEvent{NutritionID: apple.ID, Timestamp: ts("2024-03-04 08:02:00"), AmountGrams: 100}))
	require.NoError(t, s.CreateEvent(ctx, &model.LifeEvent{Timestamp: ts("2024-03-04 17:00:00"), Name: "Walk", Notes: "30 min"}))

	now := func() time.Time { return time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC) }
	dashboard := service.NewDashboardService(s, zap.NewNop(), time.UTC, report.Options{}).WithClock(now)

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Dashboard: dashboard,
		Records:   service.NewRecordService(s),
		Tokens:    tokens,
		Ping:      func(ctx context.Context) error { return nil },
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSummaryEndpoint(t *testing.T) {
	r := setupRouter(t, nil)

	w := get(r, "/api/dashboard/summary?start_date=2024-03-04&end_date=2024-03-04")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	am := rows[0]
	assert.Equal(t, "AM", am["am_pm"])
	assert.Equal(t, "2024-03-04", am["date"])
	assert.Equal(t, "2024-03-04 08:00:00", am["dose_time"])
	assert.Equal(t, "2024-03-04 08:02:00", am["intake_time"])
	assert.Equal(t, 4.0, am["dosage"])
	assert.Equal(t, "Apple", am["nutrition"])
	assert.Equal(t, 52.0, am["kcal_intake"])
	assert.Equal(t, "-", am["grouped_supplements"])
	levels := am["glucose_levels"].(map[string]interface{})
	assert.Equal(t, 101.0, levels["before"])
	assert.Nil(t, levels["+1hr"])

	pm := rows[1]
	assert.Nil(t, pm["dose_time"])
	assert.Nil(t, pm["dosage"])
	assert.Equal(t, "Walk", pm["grouped_events"])
	assert.Equal(t, 0.0, pm["kcal_intake"])
}

func TestSummaryEndpointErrors(t *testing.T) {
	r := setupRouter(t, nil)

	tests := []struct {
		query  string
		status int
		kind   string
	}{
		{"start_date=2024-03-05&end_date=2024-03-04", http.StatusBadRequest, "invalid_range"},
		{"start_date=04/03/2024&end_date=2024-03-04", http.StatusBadRequest, "invalid_date"},
		{"start_date=2024-03-04", http.StatusBadRequest, "invalid_date"},
		{"start_date=0001-01-01&end_date=9999-12-31", http.StatusBadRequest, "invalid_range"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := get(r, "/api/dashboard/summary?"+tt.query)
			assert.Equal(t, tt.status, w.Code)
			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGlucoseChartEndpoint(t *testing.T) {
	r := setupRouter(t, nil)

	w := get(r, "/api/dashboard/glucose-chart?start_date=2024-03-04&end_date=2024-03-10")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[{"period":"2024/W10","week":"2024/W10","start":"2024-03-04","mean":101,"readings":1,"mean_insulin":4}]`, w.Body.String())

	w = get(r, "/api/dashboard/glucose-chart?granularity=month")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_granularity")
}

func TestPreviousWindowEndpoint(t *testing.T) {
	r := setupRouter(t, nil)

	w := get(r, "/api/intake/previous-window")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Nutrition []struct {
			NutritionName   string  `json:"nutrition_name"`
			NutritionAmount float64 `json:"nutrition_amount"`
			Timestamp       string  `json:"timestamp"`
		} `json:"nutrition"`
		Supplements []json.RawMessage `json:"supplements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Nutrition, 1)
	assert.Equal(t, "Apple", body.Nutrition[0].NutritionName)
	assert.Equal(t, 100.0, body.Nutrition[0].NutritionAmount)
	assert.Equal(t, "2024-03-04 08:02:00", body.Nutrition[0].Timestamp)
	assert.NotNil(t, body.Supplements)
	assert.Empty(t, body.Supplements)
	assert.Contains(t, w.Body.String(), `"supplements":[]`)
}

func TestRecordEndpoints(t *testing.T) {
	r := setupRouter(t, nil)

	w := get(r, "/api/glucose?start_date=2024-03-04&end_date=2024-03-04")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"timestamp":"2024-03-04 07:50:00","level":101}]`, w.Body.String())

	w = get(r, "/api/event")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"event_notes":"30 min"`)

	w = get(r, "/api/nutrition")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kcal_per_gram":0.52`)

	w = get(r, "/api/supplements")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = get(r, "/api/insulin?end_date=2024-03-04")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesRequireTokenWhenConfigured(t *testing.T) {
	tokens := new(mocks.MockTokenService)
	tokens.On("ValidateToken", "good").Return(&service.TokenClaims{}, nil)
	r := setupRouter(t, tokens)

	w := get(r, "/api/glucose")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/glucose", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	tokens.AssertExpectations(t)

	w = get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("wrap: %w", report.ErrInvalidDate), http.StatusBadRequest, "invalid_date"},
		{report.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
		{fmt.Errorf("nutrition item 3: %w", store.ErrNotFound), http.StatusNotFound, "not_found"},
		{report.ErrOrphanReference, http.StatusConflict, "orphan_reference"},
		{service.ErrExportDisabled, http.StatusServiceUnavailable, "export_disabled"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		status, kind := errorKind(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.kind, kind, tt.err.Error())
	}
}

func TestExportEndpoint(t *testing.T) {
	export := new(mocks.MockExportService)
	export.On("Export", mock.Anything).
		Return(&service.ExportResult{Key: "exports/2024-03-04/x.json", URL: "https://x"}, nil).Once()
	export.On("Export", mock.Anything).Return(nil, service.ErrExportDisabled).Once()

	r := gin.New()
	NewExportHandler(export).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/export", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"exports/2024-03-04/x.json"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/export", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	export.AssertExpectations(t)
}

func TestSummaryOrphanConflict(t *testing.T) {
	dashboard := new(mocks.MockDashboardService)
	dashboard.On("Summary", mock.Anything, "2024-03-04", "2024-03-04").
		Return(nil, fmt.Errorf("%w: intake 7 references nutrition 3", report.ErrOrphanReference))

	r := gin.New()
	NewDashboardHandler(dashboard).RegisterRoutes(r.Group("/api"))

	w := get(r, "/api/dashboard/summary?start_date=2024-03-04&end_date=2024-03-04")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"orphan reference: intake 7 references nutrition 3","kind":"orphan_reference"}`, w.Body.String())
	dashboard.AssertExpectations(t)
}
