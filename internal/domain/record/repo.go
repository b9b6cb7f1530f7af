package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a clinical record does not exist.
var ErrNotFound = errors.New("clinical record not found")

type Repository interface {
	Create(ctx context.Context, r *ClinicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error)
	// ListByPatient returns a patient's records, newest visit first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*ClinicalRecord, error)
	// ListByDay returns the records created on a calendar day (yyyy-MM-dd).
	ListByDay(ctx context.Context, day string) ([]*ClinicalRecord, error)
	// UpdateAmount overwrites the payment amount and nothing else.
	UpdateAmount(ctx context.Context, id uuid.UUID, amount string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
