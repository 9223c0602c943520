package residents

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Resident is one member of the association, tied to a unit.
type Resident struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Unit      string    `json:"unit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound   = errors.New("residents: not found")
	ErrValidation = errors.New("residents: validation failed")
)
