package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient does not exist.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// List returns the full patient set. Directory filtering and ordering
	// happen in memory against this snapshot.
	List(ctx context.Context) ([]*Patient, error)
	// UpdateRecall sets the next-due date and last-seen timestamp after a
	// visit. Demographic fields are deliberately not updatable.
	UpdateRecall(ctx context.Context, id uuid.UUID, nextTestDate string, lastSeen time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}
