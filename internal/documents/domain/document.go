package documents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("documents: validation failed")
	ErrNotFound   = errors.New("documents: not found")
)

// Document is a metadata record for a file held in external storage. The
// service never touches the bytes; URL points at wherever they live.
type Document struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	UploaderID   string    `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists document metadata.
type Repository interface {
	Create(ctx context.Context, doc Document) error
	List(ctx context.Context, category string) ([]Document, error)
}
