package role

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

func TestCreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with deduplicated permissions", func(t *testing.T) {
		repo := NewInMemoryRoleRepository()
		p := usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo))

		out := p.Run(ctx, map[string]interface{}{
			"name":        "Sales",
			"permissions": []interface{}{"VIEW_REPORTS", "MANAGE_CLIENTS", "VIEW_REPORTS"},
		})

		require.True(t, out.IsSuccess())
		assert.NotEqual(t, uuid.Nil, out.Value().ID)
		assert.Equal(t, []Permission{ManageClients, ViewReports}, out.Value().Permissions)
	})

	t.Run("unknown permission is a validation failure without store access", func(t *testing.T) {
		repo := &MockRepository{}
		p := usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo))

		out := p.Run(ctx, map[string]interface{}{
			"name":        "Sales",
			"permissions": []interface{}{"ROOT"},
		})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
		repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name never reaches create", func(t *testing.T) {
		repo := &MockRepository{}
		repo.On("FindByName", mock.Anything, "Admin").Return(Role{ID: uuid.New(), Name: "Admin"}, nil)
		p := usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo))

		out := p.Run(ctx, map[string]interface{}{"name": "Admin"})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost race surfaces as already exists", func(t *testing.T) {
		repo := &MockRepository{}
		repo.On("FindByName", mock.Anything, "Admin").Return(Role{}, repository.ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(Role{}, repository.Duplicate("roles", "name"))
		p := usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo))

		out := p.Run(ctx, map[string]interface{}{"name": "Admin"})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)
	})

	t.Run("store failure is unknown", func(t *testing.T) {
		repo := &MockRepository{}
		repo.On("FindByName", mock.Anything, "Admin").Return(Role{}, errors.New("connection refused"))
		p := usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo))

		out := p.Run(ctx, map[string]interface{}{"name": "Admin"})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeInternal, out.Failure().Code)
	})
}

func TestGetRole(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRoleRepository()
	created, err := repo.Create(ctx, Role{Name: "Admin", Permissions: AllPermissions()})
	require.NoError(t, err)

	p := usecase.New[IDInput, Role]("role.get", NewGetRole(repo))

	out := p.Run(ctx, map[string]interface{}{"id": created.ID.String()})
	require.True(t, out.IsSuccess())
	assert.Equal(t, "Admin", out.Value().Name)

	out = p.Run(ctx, map[string]interface{}{"id": uuid.NewString()})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, out.Failure().Code)

	out = p.Run(ctx, map[string]interface{}{"id": "not-uuid"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
}

func TestListRoles(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRoleRepository()
	for _, name := range []string{"Admin", "Sales", "Sales Lead", "Support"} {
		_, err := repo.Create(ctx, Role{Name: name})
		require.NoError(t, err)
	}
	p := usecase.New[ListInput, repository.Paginated[Role]]("role.list", NewListRoles(repo))

	out := p.Run(ctx, map[string]interface{}{"name": "sales", "limit": float64(1)})

	require.True(t, out.IsSuccess())
	page := out.Value()
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sales", page.Data[0].Name)
	assert.Equal(t, repository.Pagination{Page: 1, Limit: 1, Total: 2, TotalPages: 2}, page.Pagination)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRoleRepository()
	admin, err := repo.Create(ctx, Role{Name: "Admin", Description: "everything", Permissions: AllPermissions()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Role{Name: "Sales"})
	require.NoError(t, err)

	p := usecase.New[UpdateInput, Role]("role.update", NewUpdateRole(repo))

	out := p.Run(ctx, map[string]interface{}{"id": admin.ID.String(), "name": "Sales"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)

	out = p.Run(ctx, map[string]interface{}{
		"id":          admin.ID.String(),
		"permissions": []interface{}{"MANAGE_USERS"},
	})
	require.True(t, out.IsSuccess())
	assert.Equal(t, "Admin", out.Value().Name)
	assert.Equal(t, "everything", out.Value().Description)
	assert.Equal(t, []Permission{ManageUsers}, out.Value().Permissions)

	out = p.Run(ctx, map[string]interface{}{"id": uuid.NewString(), "name": "Ghost"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, out.Failure().Code)
}

func TestDeleteRole(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unused role", func(t *testing.T) {
		repo := NewInMemoryRoleRepository()
		r, err := repo.Create(ctx, Role{Name: "Temp"})
		require.NoError(t, err)

		out := usecase.New[IDInput, Deleted]("role.delete", NewDeleteRole(repo, stubUsage(0))).
			Run(ctx, map[string]interface{}{"id": r.ID.String()})

		require.True(t, out.IsSuccess())
		_, err = repo.FindByID(ctx, r.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("refuses a role with users", func(t *testing.T) {
		repo := &MockRepository{}
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(Role{ID: id, Name: "Sales"}, nil)

		out := usecase.New[IDInput, Deleted]("role.delete", NewDeleteRole(repo, stubUsage(3))).
			Run(ctx, map[string]interface{}{"id": id.String()})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		repo := NewInMemoryRoleRepository()
		out := usecase.New[IDInput, Deleted]("role.delete", NewDeleteRole(repo, nil)).
			Run(ctx, map[string]interface{}{"id": uuid.NewString()})

		require.True(t, out.IsFailure())
		assert.Equal(t, apperrors.ErrCodeNotFound, out.Failure().Code)
	})
}
