package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHistogram_Observe(t *testing.T) {
	h := newHistogram([]float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)

	cumulative, sum, total := h.snapshot()
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if sum != 5.55 {
		t.Errorf("expected sum 5.55, got %g", sum)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if cumulative[i] != w {
			t.Errorf("bucket %d = %d, want %d", i, cumulative[i], w)
		}
	}
}

func TestProvider_RecordRequest(t *testing.T) {
	p := NewProvider("opticrm")
	p.RecordRequest("GET", "/api/patients", 200)
	p.RecordRequest("GET", "/api/patients", 200)
	p.RecordRequest("GET", "/api/patients", 500)

	if got := p.RequestCount("GET", "/api/patients", 200); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := p.RequestCount("GET", "/api/patients", 500); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := p.RequestCount("POST", "/api/visits", 201); got != 0 {
		t.Errorf("expected 0 for unseen triple, got %d", got)
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	p := NewProvider("opticrm")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := p.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.RequestCount("GET", "/api/patients", 200); got != 1 {
		t.Errorf("expected 1 recorded request, got %d", got)
	}
}

func TestMiddleware_RecordsHTTPErrorStatus(t *testing.T) {
	p := NewProvider("opticrm")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := p.Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	})
	_ = h(c)

	if got := p.RequestCount("GET", "/api/patients/nope", 404); got != 1 {
		t.Errorf("expected error status to be recorded, got %d", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	p := NewProvider("opticrm")
	p.RecordRequest("GET", "/api/patients", 200)
	p.observeLatency("GET", "/api/patients", 0.02)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := p.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",path="/api/patients",status="200"} 1`) {
		t.Errorf("missing counter line in:\n%s", body)
	}
	if !strings.Contains(body, `http_request_duration_seconds_count{method="GET",path="/api/patients"} 1`) {
		t.Errorf("missing histogram count line in:\n%s", body)
	}
	if !strings.Contains(body, `le="+Inf"`) {
		t.Errorf("missing +Inf bucket in:\n%s", body)
	}
}
