package supplier

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// Repository stores suppliers. Names are unique.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Supplier, error)
	FindByName(ctx context.Context, name string) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) (Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page repository.Page) ([]Supplier, int, error)
}
