package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	documents "condo-portal/internal/documents/domain"
)

// Service manages document metadata. Role checks happen here, against
// the identity carried in the context.
type Service struct {
	repo documents.Repository
}

// NewService constructs a service.
func NewService(repo documents.Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New("documents service: nil repo")
	}
	return &Service{repo: repo}, nil
}

// Register records a document's metadata. Director or above.
func (s *Service) Register(ctx context.Context, title, category, rawURL string) (*documents.Document, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	rawURL = strings.TrimSpace(rawURL)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", documents.ErrValidation)
	}
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url required", documents.ErrValidation)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: url must be absolute", documents.ErrValidation)
	}

	doc := documents.Document{
		ID:           uuid.New(),
		Title:        title,
		Category:     category,
		URL:          rawURL,
		UploaderID:   auth.SubjectFromContext(ctx),
		UploaderName: auth.NameFromContext(ctx),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns document metadata, newest first.
func (s *Service) List(ctx context.Context, category string) ([]documents.Document, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleResident); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, strings.TrimSpace(category))
}
