// AngelaMos | 2026
// role.go

package core

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("role %q: %w", s, ErrInvalidInput)
	}
	return role, nil
}

// Authorize is the single role predicate used by the gate and the services.
// It is an equality check: admin does not satisfy a user requirement. An empty
// required role only demands that the caller holds some valid role.
func Authorize(actual, required Role) error {
	if !actual.Valid() {
		return fmt.Errorf("authorize: %w", ErrUnauthorized)
	}
	if required != "" && actual != required {
		return fmt.Errorf("authorize: requires %s: %w", required, ErrForbidden)
	}
	return nil
}
