package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// Repository stores roles. Lookups that match nothing return repository.ErrNotFound and
// writes that break the unique name return repository.ErrDuplicate.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Role, error)
	FindByName(ctx context.Context, name string) (Role, error)
	Create(ctx context.Context, role Role) (Role, error)
	Update(ctx context.Context, role Role) (Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page repository.Page) ([]Role, int, error)
}

// UsageCounter reports how many users are assigned a role.
type UsageCounter interface {
	CountByRole(ctx context.Context, roleID uuid.UUID) (int, error)
}
