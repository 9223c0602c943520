package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	residents "condo-portal/internal/residents/domain"
)

// Repository is an in-memory resident roster for tests.
type Repository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*residents.Resident
}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[uuid.UUID]*residents.Resident)}
}

// Create inserts a resident.
func (r *Repository) Create(ctx context.Context, resident *residents.Resident) error {
	_ = ctx
	if resident == nil {
		return residents.ErrValidation
	}
	clone := *resident
	r.mu.Lock()
	r.data[resident.ID] = &clone
	r.mu.Unlock()
	return nil
}

// Update rewrites mutable fields.
func (r *Repository) Update(ctx context.Context, resident *residents.Resident) error {
	_ = ctx
	if resident == nil {
		return residents.ErrValidation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[resident.ID]
	if !ok {
		return residents.ErrNotFound
	}
	existing.Name = resident.Name
	existing.Email = resident.Email
	existing.Unit = resident.Unit
	existing.UpdatedAt = resident.UpdatedAt
	return nil
}

// GetByID fetches a resident, nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*residents.Resident, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	resident, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	clone := *resident
	return &clone, nil
}

// List returns residents ordered by unit then name.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]residents.Resident, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]residents.Resident, 0, len(r.data))
	for _, resident := range r.data {
		if activeOnly && !resident.Active {
			continue
		}
		result = append(result, *resident)
	}
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		if result[i].Unit != result[j].Unit {
			return result[i].Unit < result[j].Unit
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// SetActive flips the active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	resident, ok := r.data[id]
	if !ok {
		return residents.ErrNotFound
	}
	resident.Active = active
	resident.UpdatedAt = time.Now().UTC()
	return nil
}
