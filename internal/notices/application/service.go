package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	notices "condo-portal/internal/notices/domain"
	"condo-portal/internal/observability/metrics"
)

// DefaultListLimit caps the board when the caller asks for no limit.
const DefaultListLimit = 50

// Publisher receives every posted notice. Publish must not block; slow
// consumers drop.
type Publisher interface {
	Publish(ctx context.Context, notice notices.Notice)
}

// Service manages the notice board. Role checks happen here, against the
// identity carried in the context.
type Service struct {
	repo       notices.Repository
	publishers []Publisher
}

// NewService constructs a service. Publishers are optional fan-out
// targets for posted notices.
func NewService(repo notices.Repository, publishers ...Publisher) (*Service, error) {
	if repo == nil {
		return nil, errors.New("notices service: nil repo")
	}
	return &Service{repo: repo, publishers: publishers}, nil
}

// Post publishes a notice to the board. Director or above.
func (s *Service) Post(ctx context.Context, title, body string) (*notices.Notice, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", notices.ErrValidation)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: body required", notices.ErrValidation)
	}

	notice := notices.Notice{
		ID:         uuid.New(),
		Title:      title,
		Body:       body,
		AuthorID:   auth.SubjectFromContext(ctx),
		AuthorName: auth.NameFromContext(ctx),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, err
	}
	metrics.IncNoticePosted()
	for _, pub := range s.publishers {
		pub.Publish(ctx, notice)
	}
	return &notice, nil
}

// List returns the board, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]notices.Notice, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleResident); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}
