package role

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named set of permissions assigned to users.
type Role struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// PermissionSet returns the role's permissions as a set.
func (r Role) PermissionSet() PermissionSet {
	return NewPermissionSet(r.Permissions...)
}

// Filter narrows a role listing. Empty fields match everything.
type Filter struct {
	Name string
}
