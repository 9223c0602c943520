package memory

import (
	"context"
	"sort"
	"sync"

	documents "condo-portal/internal/documents/domain"
)

// Repository is an in-memory document metadata store for tests.
type Repository struct {
	mu   sync.RWMutex
	docs []documents.Document
}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Create appends a document record.
func (r *Repository) Create(ctx context.Context, doc documents.Document) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	return nil
}

// List returns documents newest first, optionally filtered by category.
func (r *Repository) List(ctx context.Context, category string) ([]documents.Document, error) {
	_ = ctx
	r.mu.RLock()
	var result []documents.Document
	for _, doc := range r.docs {
		if category != "" && doc.Category != category {
			continue
		}
		result = append(result, doc)
	}
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
