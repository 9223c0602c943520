package notices

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("notices: validation failed")
	ErrNotFound   = errors.New("notices: not found")
)

// Notice is one board entry visible to every resident.
type Notice struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository persists notices.
type Repository interface {
	Create(ctx context.Context, notice Notice) error
	List(ctx context.Context, limit int) ([]Notice, error)
}
