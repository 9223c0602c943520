package postgres

import (
	"context"
	"database/sql"
	"errors"

	documents "condo-portal/internal/documents/domain"
)

// Repository stores document metadata in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("documents repository: nil db")
	}
	return &Repository{db: db}, nil
}

// Create inserts a document record.
func (r *Repository) Create(ctx context.Context, doc documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, category, url, uploader_id, uploader_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, doc.ID, doc.Title, doc.Category, doc.URL, doc.UploaderID, doc.UploaderName, doc.CreatedAt)
	return err
}

// List returns documents newest first, optionally filtered by category.
func (r *Repository) List(ctx context.Context, category string) ([]documents.Document, error) {
	query := `
		SELECT id, title, category, url, uploader_id, uploader_name, created_at
		FROM documents
	`
	var (
		rows *sql.Rows
		err  error
	)
	if category != "" {
		rows, err = r.db.QueryContext(ctx, query+" WHERE category = $1 ORDER BY created_at DESC", category)
	} else {
		rows, err = r.db.QueryContext(ctx, query+" ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []documents.Document
	for rows.Next() {
		var doc documents.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Category,
			&doc.URL,
			&doc.UploaderID,
			&doc.UploaderName,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}
