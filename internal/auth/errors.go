package auth

import "errors"

var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// RequireRole checks that role satisfies required and returns
// ErrForbidden otherwise. Services call this at their boundary instead of
// trusting callers to have filtered requests.
func RequireRole(role Role, required Role) error {
	if !RoleAtLeast(role, required) {
		return ErrForbidden
	}
	return nil
}
