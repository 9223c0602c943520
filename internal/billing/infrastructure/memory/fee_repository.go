package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	billing "condo-portal/internal/billing/domain"
)

type feeKey struct {
	userID uuid.UUID
	month  time.Time
}

// FeeRepository is an in-memory monthly fee store for tests. It enforces
// the same (user_id, reference_month) uniqueness the Postgres index does.
type FeeRepository struct {
	mu     sync.RWMutex
	fees   map[uuid.UUID]*billing.MonthlyFee
	byPair map[feeKey]uuid.UUID

	// Names resolves user ids to display names for the ledger join.
	Names map[uuid.UUID]string
}

// NewFeeRepository constructs a repository.
func NewFeeRepository() *FeeRepository {
	return &FeeRepository{
		fees:   make(map[uuid.UUID]*billing.MonthlyFee),
		byPair: make(map[feeKey]uuid.UUID),
		Names:  make(map[uuid.UUID]string),
	}
}

// InsertBatch inserts fees, skipping existing (user, month) pairs.
func (r *FeeRepository) InsertBatch(ctx context.Context, fees []billing.MonthlyFee) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, fee := range fees {
		key := feeKey{userID: fee.UserID, month: billing.MonthStart(fee.ReferenceMonth)}
		if _, exists := r.byPair[key]; exists {
			continue
		}
		clone := fee
		r.fees[fee.ID] = &clone
		r.byPair[key] = fee.ID
		inserted++
	}
	return inserted, nil
}

// List returns fees matching the filter, due date descending.
func (r *FeeRepository) List(ctx context.Context, filter billing.FeeFilter) ([]billing.MonthlyFee, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.MonthlyFee
	for _, fee := range r.fees {
		if !filter.Month.IsZero() {
			monthStart := billing.MonthStart(filter.Month)
			if fee.ReferenceMonth.Before(monthStart) || !fee.ReferenceMonth.Before(monthStart.AddDate(0, 1, 0)) {
				continue
			}
		}
		if filter.Status != "" && fee.Status != filter.Status {
			continue
		}
		if filter.UserID != uuid.Nil && fee.UserID != filter.UserID {
			continue
		}
		clone := *fee
		if name, ok := r.Names[fee.UserID]; ok {
			clone.ResidentName = name
		}
		result = append(result, clone)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].DueDate.After(result[j].DueDate)
		}
		return result[i].ResidentName < result[j].ResidentName
	})
	return result, nil
}

// MarkPaid stamps the given fees paid.
func (r *FeeRepository) MarkPaid(ctx context.Context, ids []uuid.UUID, paymentDate time.Time) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	now := time.Now().UTC()
	for _, id := range ids {
		fee, ok := r.fees[id]
		if !ok {
			continue
		}
		paid := paymentDate
		fee.Status = billing.FeeStatusPaid
		fee.PaymentDate = &paid
		fee.UpdatedAt = now
		updated++
	}
	return updated, nil
}
