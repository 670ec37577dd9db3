package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-crm/pkg/role"
)

// User is a person who can sign in. PasswordHash never leaves the package.
type User struct {
	ID           uuid.UUID
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	RoleID       uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Output is the public representation of a user.
type Output struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	RoleID    uuid.UUID `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoleSummary is the role embedded in a profile.
type RoleSummary struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Permissions []role.Permission `json:"permissions"`
}

// Profile is the caller's own user with its role.
type Profile struct {
	Output
	Role RoleSummary `json:"role"`
}

// Filter narrows a user listing. Zero fields match everything.
type Filter struct {
	Name     string
	Username string
	Email    string
	RoleID   *uuid.UUID
	Active   *bool
}

func toOutput(u User, roleName string) Output {
	var out Output
	if err := copier.Copy(&out, &u); err != nil {
		slog.Error("Failed to copy user output", "user_id", u.ID, "err", err)
	}
	out.RoleName = roleName
	return out
}
