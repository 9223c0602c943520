package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	billing "condo-portal/internal/billing/domain"
)

// FeeRepository persists monthly fees.
type FeeRepository struct {
	db *sql.DB
}

// NewFeeRepository constructs a repository.
func NewFeeRepository(db *sql.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// InsertBatch inserts fees inside one transaction. The unique index on
// (user_id, reference_month) makes the operation idempotent: rows that
// already exist are skipped via ON CONFLICT DO NOTHING, and the returned
// count covers only rows actually written.
func (r *FeeRepository) InsertBatch(ctx context.Context, fees []billing.MonthlyFee) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("fee repo: nil db")
	}
	if len(fees) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, fee := range fees {
		result, err := tx.ExecContext(ctx, `
INSERT INTO monthly_fees (
	id, user_id, reference_month, amount, due_date, status, payment_date, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,NULL,$7,$8
)
ON CONFLICT (user_id, reference_month) DO NOTHING`,
			fee.ID, fee.UserID, fee.ReferenceMonth, fee.Amount, fee.DueDate, fee.Status,
			fee.CreatedAt, fee.UpdatedAt)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		inserted += int(affected)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// List returns fees joined with resident names, due date descending.
func (r *FeeRepository) List(ctx context.Context, filter billing.FeeFilter) ([]billing.MonthlyFee, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("fee repo: nil db")
	}
	query := `
SELECT f.id, f.user_id, r.name, f.reference_month, f.amount, f.due_date,
	f.status, f.payment_date, f.created_at, f.updated_at
FROM monthly_fees f
JOIN residents r ON r.id = f.user_id`
	var clauses []string
	var args []any
	if !filter.Month.IsZero() {
		monthStart := billing.MonthStart(filter.Month)
		args = append(args, monthStart)
		clauses = append(clauses, fmt.Sprintf("f.reference_month >= $%d", len(args)))
		args = append(args, monthStart.AddDate(0, 1, 0))
		clauses = append(clauses, fmt.Sprintf("f.reference_month < $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("f.status = $%d", len(args)))
	}
	if filter.UserID != uuid.Nil {
		args = append(args, filter.UserID)
		clauses = append(clauses, fmt.Sprintf("f.user_id = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += "\nWHERE " + strings.Join(clauses, " AND ")
	}
	query += "\nORDER BY f.due_date DESC, r.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []billing.MonthlyFee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid stamps the given fees paid in one batch update.
func (r *FeeRepository) MarkPaid(ctx context.Context, ids []uuid.UUID, paymentDate time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("fee repo: nil db")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := []any{billing.FeeStatusPaid, paymentDate, time.Now().UTC()}
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`
UPDATE monthly_fees
SET status = $1, payment_date = $2, updated_at = $3
WHERE id IN (%s)`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func scanFee(row rowScanner) (billing.MonthlyFee, error) {
	var fee billing.MonthlyFee
	var paymentDate sql.NullTime
	err := row.Scan(&fee.ID, &fee.UserID, &fee.ResidentName, &fee.ReferenceMonth, &fee.Amount,
		&fee.DueDate, &fee.Status, &paymentDate, &fee.CreatedAt, &fee.UpdatedAt)
	if err != nil {
		return billing.MonthlyFee{}, err
	}
	if paymentDate.Valid {
		paid := paymentDate.Time
		fee.PaymentDate = &paid
	}
	return fee, nil
}
