package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// CreatePatient allocates the next display ID from the current patient set
// and persists the new patient. Name is required; address defaults to the
// empty string when the lookup produced nothing.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full name is required")
	}

	existing, err := s.patients.List(ctx)
	if err != nil {
		return fmt.Errorf("load patients for id allocation: %w", err)
	}
	p.DisplayID = NextDisplayID(existing)

	if err := s.patients.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// Directory returns the filtered patient set in canonical order
// (display ID descending, newest first).
func (s *Service) Directory(ctx context.Context, f Filter) ([]*Patient, error) {
	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	matched := Apply(all, f)
	SortByDisplayIDDesc(matched)
	return matched, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}
