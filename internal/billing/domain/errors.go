package billing

import "errors"

var (
	// ErrValidation marks malformed caller input. Wrap with context:
	// fmt.Errorf("%w: amount must be positive", ErrValidation).
	ErrValidation = errors.New("billing: validation failed")

	// ErrNoCurrentRate is returned when batch generation runs with no
	// active fee configuration and no override amount.
	ErrNoCurrentRate = errors.New("billing: no active fee configuration")

	ErrNotFound = errors.New("billing: not found")
)
