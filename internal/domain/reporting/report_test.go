package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opticrm/opticrm/internal/domain/record"
)

func rec(category, dtype, method, amount string) *record.ClinicalRecord {
	return &record.ClinicalRecord{
		Dispense: record.Dispense{Category: category, Type: dtype},
		Payment:  record.Payment{Method: method, Amount: amount},
	}
}

func TestBuildDailyReport(t *testing.T) {
	records := []*record.ClinicalRecord{
		rec("Spectacles", "Varifocal", "Card", "250.00"),
		rec("Contact Lenses", "Monthly", "Cash", "32.50"),
		rec("Other", "", "BACS", "0"),
	}

	report, err := BuildDailyReport("2025-06-12", records)
	if err != nil {
		t.Fatalf("BuildDailyReport failed: %v", err)
	}
	if report.Title != "Daily Management Report" {
		t.Errorf("title = %q", report.Title)
	}
	if report.Date != "2025-06-12" {
		t.Errorf("date = %q", report.Date)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(report.Rows))
	}
	first := report.Rows[0]
	if first.Category != "Spectacles" || first.Type != "Varifocal" || first.Method != "Card" || first.Amount != "250.00" {
		t.Errorf("first row = %+v", first)
	}
	if report.Total != "282.50" {
		t.Errorf(`total = %q, want "282.50"`, report.Total)
	}
	if report.TotalLine != "Total Takings: £282.50" {
		t.Errorf("total line = %q", report.TotalLine)
	}
}

func TestBuildDailyReport_Empty(t *testing.T) {
	if _, err := BuildDailyReport("2025-06-12", nil); !errors.Is(err, ErrNoRecords) {
		t.Errorf("got %v, want ErrNoRecords", err)
	}
}

func TestBuildDailyReport_UnparseableAmount(t *testing.T) {
	records := []*record.ClinicalRecord{
		rec("Spectacles", "", "Card", "100"),
		rec("Other", "", "Other", "twenty"),
	}
	report, err := BuildDailyReport("2025-06-12", records)
	if err != nil {
		t.Fatalf("BuildDailyReport failed: %v", err)
	}
	if report.Total != "100.00" {
		t.Errorf(`total = %q, want "100.00" when one amount is not numeric`, report.Total)
	}
	if len(report.Rows) != 2 {
		t.Errorf("the unparseable row must still be listed, got %d rows", len(report.Rows))
	}
}

func TestBuildDailyReport_RoundsToTwoPlaces(t *testing.T) {
	records := []*record.ClinicalRecord{
		rec("Other", "", "Cash", "0.1"),
		rec("Other", "", "Cash", "0.2"),
	}
	report, err := BuildDailyReport("2025-06-12", records)
	if err != nil {
		t.Fatalf("BuildDailyReport failed: %v", err)
	}
	if report.Total != "0.30" {
		t.Errorf(`total = %q, want "0.30"`, report.Total)
	}
}

type stubSource struct {
	records []*record.ClinicalRecord
	err     error
}

func (s *stubSource) ListByDay(context.Context, string) ([]*record.ClinicalRecord, error) {
	return s.records, s.err
}

func TestServiceDaily_InvalidDate(t *testing.T) {
	svc := NewService(&stubSource{})
	if _, err := svc.Daily(context.Background(), "12/06/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestServiceDaily_SourceError(t *testing.T) {
	svc := NewService(&stubSource{err: errors.New("pool closed")})
	if _, err := svc.Daily(context.Background(), "2025-06-12"); err == nil {
		t.Error("expected source error to propagate")
	}
}

func TestHandlerDaily(t *testing.T) {
	src := &stubSource{records: []*record.ClinicalRecord{rec("Spectacles", "", "Card", "45.00")}}
	h := NewHandler(NewService(src), zerolog.Nop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/reports/daily?date=2025-06-12", nil)
	rw := httptest.NewRecorder()
	c := e.NewContext(req, rw)

	if err := h.Daily(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rw.Code)
	}
	var got DailyReport
	if err := json.Unmarshal(rw.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != "45.00" {
		t.Errorf(`total = %q, want "45.00"`, got.Total)
	}
}

func TestHandlerDaily_NoRecords(t *testing.T) {
	h := NewHandler(NewService(&stubSource{}), zerolog.Nop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/reports/daily?date=2025-06-12", nil)
	rw := httptest.NewRecorder()
	c := e.NewContext(req, rw)

	err := h.Daily(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404", err)
	}
	if httpErr.Message != "no records found" {
		t.Errorf("message = %v", httpErr.Message)
	}
}

func TestHandlerDaily_BadDate(t *testing.T) {
	h := NewHandler(NewService(&stubSource{}), zerolog.Nop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/reports/daily?date=junk", nil)
	rw := httptest.NewRecorder()
	c := e.NewContext(req, rw)

	err := h.Daily(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}
