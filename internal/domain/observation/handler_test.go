package observation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthbridge/api/internal/platform/auth"
)

func newTestContext(e *echo.Echo, method, target string, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerCreate(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	uid := uuid.New()

	body := `{"type":"heart-rate","heart_rate":72}`
	c, rec := newTestContext(e, http.MethodPost, "/health/data", body, uid)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandlerCreate_InvalidPayload(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	body := `{"type":"heart-rate"}`
	c, _ := newTestContext(e, http.MethodPost, "/health/data", body, uuid.New())

	err := h.Create(c)
	if err == nil {
		t.Fatal("expected error for missing value")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodGet, "/health/data/"+uuid.NewString(), "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.Get(c)
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}
}

func TestHandlerGet_ForbiddenForOtherUser(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	owner := uuid.New()

	o := &Observation{UserID: owner, Type: "heart-rate", HeartRate: f64(70)}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := newTestContext(e, http.MethodGet, "/health/data/"+o.ID.String(), "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(o.ID.String())

	err := h.Get(c)
	if err == nil {
		t.Fatal("expected error for other user's entry")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestHandlerGet_InvalidID(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodGet, "/health/data/abc", "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	if err == nil {
		t.Fatal("expected error for invalid id")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandlerList(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	uid := uuid.New()

	o := &Observation{UserID: uid, Type: "heart-rate", HeartRate: f64(75)}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := newTestContext(e, http.MethodGet, "/health/data?type=heart-rate", "", uid)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerList_InvalidFromTimestamp(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodGet, "/health/data?from=yesterday", "", uuid.New())
	err := h.List(c)
	if err == nil {
		t.Fatal("expected error for bad timestamp")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	svc, repo := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	uid := uuid.New()

	o := &Observation{UserID: uid, Type: "weight", Weight: f64(80)}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := newTestContext(e, http.MethodDelete, "/health/data/"+o.ID.String(), "", uid)
	c.SetParamNames("id")
	c.SetParamValues(o.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(repo.records) != 0 {
		t.Error("expected entry to be deleted")
	}
}
