package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/opticrm/opticrm/internal/domain/record"
)

// RecordSource supplies the records created on a calendar day.
// record.Repository satisfies it.
type RecordSource interface {
	ListByDay(ctx context.Context, day string) ([]*record.ClinicalRecord, error)
}

type Service struct {
	records RecordSource
}

func NewService(records RecordSource) *Service {
	return &Service{records: records}
}

// Daily builds the report for the given date (yyyy-MM-dd).
func (s *Service) Daily(ctx context.Context, date string) (*DailyReport, error) {
	if _, err := time.Parse(record.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid report date %q: %w", date, err)
	}
	records, err := s.records.ListByDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load records for %s: %w", date, err)
	}
	return BuildDailyReport(date, records)
}
