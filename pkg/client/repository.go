package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// Repository stores clients. Names are unique.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Client, error)
	FindByName(ctx context.Context, name string) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, client Client) (Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page repository.Page) ([]Client, int, error)
}
