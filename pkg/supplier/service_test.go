package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

func TestSupplierLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemorySupplierRepository()
	create := usecase.New[CreateInput, Supplier]("supplier.create", NewCreateSupplier(repo))
	update := usecase.New[UpdateInput, Supplier]("supplier.update", NewUpdateSupplier(repo))
	list := usecase.New[ListInput, repository.Paginated[Supplier]]("supplier.list", NewListSuppliers(repo))
	del := usecase.New[IDInput, Deleted]("supplier.delete", NewDeleteSupplier(repo))

	out := create.Run(ctx, map[string]interface{}{"name": "Initech", "phone": "555-0100"})
	require.True(t, out.IsSuccess())
	initech := out.Value()

	require.True(t, create.Run(ctx, map[string]interface{}{"name": "Umbrella"}).IsSuccess())

	dup := create.Run(ctx, map[string]interface{}{"name": "Initech"})
	require.True(t, dup.IsFailure())
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, dup.Failure().Code)

	missing := create.Run(ctx, map[string]interface{}{})
	require.True(t, missing.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, missing.Failure().Code)
	assert.Equal(t, "name", missing.Failure().Violations[0].Field)

	out = update.Run(ctx, map[string]interface{}{"id": initech.ID.String(), "phone": nil, "notes": "net 30"})
	require.True(t, out.IsSuccess())
	assert.Nil(t, out.Value().Phone)
	assert.Equal(t, "net 30", *out.Value().Notes)
	assert.Equal(t, "Initech", out.Value().Name)

	out = update.Run(ctx, map[string]interface{}{"id": initech.ID.String(), "name": "Initech"})
	require.True(t, out.IsSuccess(), "renaming to its own name is not a conflict")

	out = update.Run(ctx, map[string]interface{}{"id": initech.ID.String(), "name": "Umbrella"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)

	page := list.Run(ctx, map[string]interface{}{"name": "INI"})
	require.True(t, page.IsSuccess())
	assert.Equal(t, 1, page.Value().Pagination.Total)

	require.True(t, del.Run(ctx, map[string]interface{}{"id": initech.ID.String()}).IsSuccess())
	gone := del.Run(ctx, map[string]interface{}{"id": initech.ID.String()})
	require.True(t, gone.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, gone.Failure().Code)
}
