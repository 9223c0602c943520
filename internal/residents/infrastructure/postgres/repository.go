package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	residents "condo-portal/internal/residents/domain"
)

// Repository persists residents in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a resident.
func (r *Repository) Create(ctx context.Context, resident *residents.Resident) error {
	if r == nil || r.db == nil {
		return errors.New("residents repo: nil db")
	}
	if resident == nil {
		return errors.New("residents repo: nil resident")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO residents (id, name, email, unit, active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		resident.ID, resident.Name, resident.Email, resident.Unit, resident.Active,
		resident.CreatedAt, resident.UpdatedAt)
	return err
}

// Update rewrites mutable resident fields.
func (r *Repository) Update(ctx context.Context, resident *residents.Resident) error {
	if r == nil || r.db == nil {
		return errors.New("residents repo: nil db")
	}
	if resident == nil {
		return errors.New("residents repo: nil resident")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE residents
SET name = $2, email = $3, unit = $4, updated_at = $5
WHERE id = $1`,
		resident.ID, resident.Name, resident.Email, resident.Unit, resident.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return residents.ErrNotFound
	}
	return nil
}

// GetByID fetches a resident, nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*residents.Resident, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("residents repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, unit, active, created_at, updated_at
FROM residents
WHERE id = $1
LIMIT 1`, id)
	return scanResident(row)
}

// List returns residents ordered by unit then name.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]residents.Resident, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("residents repo: nil db")
	}
	query := `
SELECT id, name, email, unit, active, created_at, updated_at
FROM residents`
	if activeOnly {
		query += `
WHERE active`
	}
	query += `
ORDER BY unit ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []residents.Resident
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		if resident != nil {
			result = append(result, *resident)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetActive flips the active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if r == nil || r.db == nil {
		return errors.New("residents repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE residents
SET active = $2, updated_at = $3
WHERE id = $1`, id, active, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return residents.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResident(row rowScanner) (*residents.Resident, error) {
	var resident residents.Resident
	err := row.Scan(&resident.ID, &resident.Name, &resident.Email, &resident.Unit,
		&resident.Active, &resident.CreatedAt, &resident.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resident, nil
}
