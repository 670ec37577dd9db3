package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/role"
)

// Repository stores users. Email and username are each unique; a write that breaks either
// returns repository.ErrDuplicate naming the column through repository.ConstraintField.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page repository.Page) ([]User, int, error)
	CountByRole(ctx context.Context, roleID uuid.UUID) (int, error)
}

// RoleLookup resolves the role a user is bound to.
type RoleLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (role.Role, error)
}
