package role

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/repository/pgtest"
)

func TestPostgresRepository(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	admin, err := repo.Create(ctx, Role{Name: "Admin", Description: "all", Permissions: AllPermissions()})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, admin.ID)
	assert.ElementsMatch(t, AllPermissions(), admin.Permissions)
	assert.False(t, admin.CreatedAt.IsZero())

	_, err = repo.Create(ctx, Role{Name: "Admin"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Equal(t, "name", repository.ConstraintField(err))

	found, err := repo.FindByName(ctx, "Admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	admin.Description = "everything"
	admin.Permissions = []Permission{ManageUsers}
	updated, err := repo.Update(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "everything", updated.Description)
	assert.Equal(t, []Permission{ManageUsers}, updated.Permissions)

	_, err = repo.Create(ctx, Role{Name: "Sales"})
	require.NoError(t, err)

	roles, total, err := repo.List(ctx, Filter{Name: "SAL"}, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, roles, 1)
	assert.Equal(t, "Sales", roles[0].Name)

	roles, total, err = repo.List(ctx, Filter{}, repository.NewPage(2, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, roles, 1)
	assert.Equal(t, "Sales", roles[0].Name)

	require.NoError(t, repo.Delete(ctx, admin.ID))
	assert.ErrorIs(t, repo.Delete(ctx, admin.ID), repository.ErrNotFound)
}
