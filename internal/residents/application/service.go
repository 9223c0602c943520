package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	residents "condo-portal/internal/residents/domain"
)

// Service manages the resident roster. All role checks happen here, at
// the service boundary, against the identity carried in the context.
type Service struct {
	repo residents.Repository
}

// NewService constructs a service.
func NewService(repo residents.Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New("residents service: nil repo")
	}
	return &Service{repo: repo}, nil
}

// Create registers a resident. Admin only.
func (s *Service) Create(ctx context.Context, name, email, unit string) (*residents.Resident, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validate(name, email); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	resident := &residents.Resident{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Unit:      strings.TrimSpace(unit),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, resident); err != nil {
		return nil, err
	}
	return resident, nil
}

// Update rewrites a resident's details. Admin only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, email, unit string) (*residents.Resident, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validate(name, email); err != nil {
		return nil, err
	}
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, residents.ErrNotFound
	}
	resident.Name = strings.TrimSpace(name)
	resident.Email = strings.TrimSpace(email)
	resident.Unit = strings.TrimSpace(unit)
	resident.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, resident); err != nil {
		return nil, err
	}
	return resident, nil
}

// Deactivate removes a resident from the active roster. Admin only.
// Deactivated residents keep their fee history but are skipped by batch
// generation.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleAdmin); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

// Get fetches one resident. Directors and admins may fetch anyone;
// residents only their own record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*residents.Resident, error) {
	role := auth.RoleFromContext(ctx)
	if !auth.RoleAtLeast(role, auth.RoleDirector) && auth.SubjectFromContext(ctx) != id.String() {
		return nil, auth.ErrForbidden
	}
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, residents.ErrNotFound
	}
	return resident, nil
}

// List returns the roster. Director or above.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]residents.Resident, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, activeOnly)
}

func validate(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name required", residents.ErrValidation)
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email required", residents.ErrValidation)
	}
	return nil
}
