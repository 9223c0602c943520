package postgres

import (
	"context"
	"database/sql"
	"errors"

	notices "condo-portal/internal/notices/domain"
)

// Repository stores notices in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("notices repository: nil db")
	}
	return &Repository{db: db}, nil
}

// Create inserts a notice.
func (r *Repository) Create(ctx context.Context, notice notices.Notice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notices (id, title, body, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, notice.ID, notice.Title, notice.Body, notice.AuthorID, notice.AuthorName, notice.CreatedAt)
	return err
}

// List returns notices newest first, capped at limit when positive.
func (r *Repository) List(ctx context.Context, limit int) ([]notices.Notice, error) {
	query := `
		SELECT id, title, body, author_id, author_name, created_at
		FROM notices
		ORDER BY created_at DESC
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []notices.Notice
	for rows.Next() {
		var notice notices.Notice
		if err := rows.Scan(
			&notice.ID,
			&notice.Title,
			&notice.Body,
			&notice.AuthorID,
			&notice.AuthorName,
			&notice.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notice)
	}
	return result, rows.Err()
}
