package postgres

import (
	"context"
	"database/sql"
	"errors"

	billing "condo-portal/internal/billing/domain"
)

// ConfigRepository persists fee configurations.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository constructs a repository.
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Rotate closes the current configuration and inserts the new one in a
// single transaction, so no window exists where two configurations are
// simultaneously current. The partial unique index on (end_date IS NULL)
// rejects the race where two admins rotate at once.
func (r *ConfigRepository) Rotate(ctx context.Context, cfg billing.FeeConfiguration) error {
	if r == nil || r.db == nil {
		return errors.New("config repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
UPDATE fee_configurations
SET end_date = $1
WHERE end_date IS NULL`, cfg.StartDate)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO fee_configurations (id, amount, description, start_date, end_date, created_at)
VALUES ($1,$2,$3,$4,NULL,$5)`,
		cfg.ID, cfg.Amount, cfg.Description, cfg.StartDate, cfg.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Current returns the configuration with a null end date, nil when none.
func (r *ConfigRepository) Current(ctx context.Context) (*billing.FeeConfiguration, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("config repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, amount, description, start_date, end_date, created_at
FROM fee_configurations
WHERE end_date IS NULL
LIMIT 1`)
	return scanConfig(row)
}

// History returns all configurations, newest first.
func (r *ConfigRepository) History(ctx context.Context) ([]billing.FeeConfiguration, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("config repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, amount, description, start_date, end_date, created_at
FROM fee_configurations
ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []billing.FeeConfiguration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			result = append(result, *cfg)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (*billing.FeeConfiguration, error) {
	var cfg billing.FeeConfiguration
	var endDate sql.NullTime
	err := row.Scan(&cfg.ID, &cfg.Amount, &cfg.Description, &cfg.StartDate, &endDate, &cfg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		end := endDate.Time
		cfg.EndDate = &end
	}
	return &cfg, nil
}
