package domain

import (
	"strings"

	"streamhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

// Role is the business role claim issued by the identity provider.
type Role string

const (
	RoleBuyer    Role = constants.Buyer
	RoleSupplier Role = constants.Supplier
	RoleAdmin    Role = constants.Admin
)

// ParseRole normalizes a role claim; unknown values yield "".
func ParseRole(s string) Role {
	r := strings.ToUpper(strings.TrimSpace(s))
	if !constants.IsValidRole(r) {
		return ""
	}
	return Role(r)
}

// Caller is the authenticated identity passed into every workflow operation.
type Caller struct {
	ID   uuid.UUID `json:"user_id"`
	Role Role      `json:"role"`
}

func (c Caller) Authenticated() bool {
	return c.ID != uuid.Nil
}

func (c Caller) Is(id uuid.UUID) bool {
	return c.ID != uuid.Nil && c.ID == id
}
