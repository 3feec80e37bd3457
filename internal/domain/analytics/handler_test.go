package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthbridge/api/internal/domain/observation"
	"github.com/healthbridge/api/internal/platform/auth"
)

func newHandlerContext(e *echo.Echo, target string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerTrends(t *testing.T) {
	obs := &mockObservationSource{observations: []*observation.Observation{
		recentObs(2, func(o *observation.Observation) { o.Type = "heart-rate"; o.HeartRate = f64(72) }),
	}}
	h := NewHandler(newTestService(obs, nil, nil))
	e := echo.New()

	c, rec := newHandlerContext(e, "/health/trends?period=7d", uuid.New())
	if err := h.Trends(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var resp TrendsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Period != "7d" || resp.DataPoints != 1 {
		t.Errorf("period=%s points=%d", resp.Period, resp.DataPoints)
	}
}

func TestHandlerTrends_UnknownMetric(t *testing.T) {
	h := NewHandler(newTestService(nil, nil, nil))
	e := echo.New()

	c, _ := newHandlerContext(e, "/health/trends?metric=cholesterol", uuid.New())
	err := h.Trends(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerExport_InvalidStart(t *testing.T) {
	h := NewHandler(newTestService(nil, nil, nil))
	e := echo.New()

	c, _ := newHandlerContext(e, "/analytics/export?start=yesterday", uuid.New())
	err := h.Export(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerHealthScore(t *testing.T) {
	h := NewHandler(newTestService(nil, nil, nil))
	e := echo.New()

	c, rec := newHandlerContext(e, "/analytics/health-score", uuid.New())
	if err := h.HealthScore(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var score HealthScore
	if err := json.Unmarshal(rec.Body.Bytes(), &score); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if score.Score != 100 || score.Level != "excellent" {
		t.Errorf("score=%d level=%s", score.Score, score.Level)
	}
}

func TestHandlerMissingIdentity(t *testing.T) {
	h := NewHandler(newTestService(nil, nil, nil))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/analytics/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Overview(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
