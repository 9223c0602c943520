package residents

import (
	"context"
	"errors"

	"condo-portal/internal/billing/application"
	residents "condo-portal/internal/residents/domain"
)

// RosterAdapter exposes the resident registry as the billing roster.
type RosterAdapter struct {
	repo residents.Repository
}

// NewRosterAdapter constructs an adapter.
func NewRosterAdapter(repo residents.Repository) (*RosterAdapter, error) {
	if repo == nil {
		return nil, errors.New("roster adapter: nil repo")
	}
	return &RosterAdapter{repo: repo}, nil
}

// ActiveResidents returns the active roster as billing entries.
func (a *RosterAdapter) ActiveResidents(ctx context.Context) ([]application.RosterEntry, error) {
	list, err := a.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	entries := make([]application.RosterEntry, 0, len(list))
	for _, resident := range list {
		entries = append(entries, application.RosterEntry{ID: resident.ID, Name: resident.Name})
	}
	return entries, nil
}
