package memory

import (
	"context"
	"sort"
	"sync"

	notices "condo-portal/internal/notices/domain"
)

// Repository is an in-memory notice store for tests.
type Repository struct {
	mu      sync.RWMutex
	notices []notices.Notice
}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Create appends a notice.
func (r *Repository) Create(ctx context.Context, notice notices.Notice) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	return nil
}

// List returns notices newest first, capped at limit when positive.
func (r *Repository) List(ctx context.Context, limit int) ([]notices.Notice, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]notices.Notice, len(r.notices))
	copy(result, r.notices)
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
