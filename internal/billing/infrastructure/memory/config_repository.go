package memory

import (
	"context"
	"sort"
	"sync"

	billing "condo-portal/internal/billing/domain"
)

// ConfigRepository is an in-memory fee configuration store for tests.
type ConfigRepository struct {
	mu      sync.RWMutex
	configs []billing.FeeConfiguration
}

// NewConfigRepository constructs a repository.
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Rotate closes the current configuration and appends the new one.
func (r *ConfigRepository) Rotate(ctx context.Context, cfg billing.FeeConfiguration) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.configs {
		if r.configs[i].EndDate == nil {
			end := cfg.StartDate
			r.configs[i].EndDate = &end
		}
	}
	r.configs = append(r.configs, cfg)
	return nil
}

// Current returns the open-ended configuration, nil when none.
func (r *ConfigRepository) Current(ctx context.Context) (*billing.FeeConfiguration, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.configs {
		if r.configs[i].EndDate == nil {
			clone := r.configs[i]
			return &clone, nil
		}
	}
	return nil, nil
}

// History returns all configurations, newest first.
func (r *ConfigRepository) History(ctx context.Context) ([]billing.FeeConfiguration, error) {
	_ = ctx
	r.mu.RLock()
	result := make([]billing.FeeConfiguration, len(r.configs))
	copy(result, r.configs)
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}
