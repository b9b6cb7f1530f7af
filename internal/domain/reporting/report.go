// Package reporting builds the end-of-day takings summary from the
// clinical records created on a given date.
package reporting

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/opticrm/opticrm/internal/domain/record"
)

// ReportTitle is printed at the head of every daily report.
const ReportTitle = "Daily Management Report"

// ErrNoRecords is returned when no records were created on the requested day.
var ErrNoRecords = errors.New("no records found")

// Row is one line of the report, one per record saved that day.
type Row struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Method   string `json:"method"`
	Amount   string `json:"amount"`
}

// DailyReport is the rendered summary for one calendar day. Total is the
// sum of every parseable amount, formatted to two decimal places.
type DailyReport struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Rows      []Row  `json:"rows"`
	Total     string `json:"total"`
	TotalLine string `json:"total_line"`
}

// BuildDailyReport folds a day's records into the report. Amounts are stored
// as entered, so values that do not parse as numbers contribute zero rather
// than failing the whole report.
func BuildDailyReport(date string, records []*record.ClinicalRecord) (*DailyReport, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	rows := make([]Row, 0, len(records))
	var total float64
	for _, rec := range records {
		rows = append(rows, Row{
			Category: rec.Dispense.Category,
			Type:     rec.Dispense.Type,
			Method:   rec.Payment.Method,
			Amount:   rec.Payment.Amount,
		})
		if v, err := strconv.ParseFloat(rec.Payment.Amount, 64); err == nil {
			total += v
		}
	}

	totalStr := fmt.Sprintf("%.2f", total)
	return &DailyReport{
		Title:     ReportTitle,
		Date:      date,
		Rows:      rows,
		Total:     totalStr,
		TotalLine: fmt.Sprintf("Total Takings: £%s", totalStr),
	}, nil
}
