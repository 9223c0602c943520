package residents

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the resident roster.
type Repository interface {
	Create(ctx context.Context, resident *Resident) error
	Update(ctx context.Context, resident *Resident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	// List returns residents ordered by unit then name. When activeOnly
	// is set, deactivated residents are excluded.
	List(ctx context.Context, activeOnly bool) ([]Resident, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
