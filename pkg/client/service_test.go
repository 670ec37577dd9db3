package client

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

func createClient(t *testing.T, repo Repository, raw map[string]interface{}) Client {
	t.Helper()
	out := usecase.New[CreateInput, Client]("client.create", NewCreateClient(repo)).Run(context.Background(), raw)
	require.True(t, out.IsSuccess(), "%v", out.Failure())
	return out.Value()
}

func TestCreateClient(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryClientRepository()
	p := usecase.New[CreateInput, Client]("client.create", NewCreateClient(repo))

	out := p.Run(ctx, map[string]interface{}{
		"name":      "Acme",
		"email":     "hello@acme.io",
		"birthDate": "1990-04-12",
	})
	require.True(t, out.IsSuccess())
	require.NotNil(t, out.Value().BirthDate)
	assert.Equal(t, "1990-04-12", *out.Value().BirthDate)
	assert.Nil(t, out.Value().Phone)

	out = p.Run(ctx, map[string]interface{}{"name": "Acme"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)

	out = p.Run(ctx, map[string]interface{}{"name": "", "email": "nope", "birthDate": "1990-13-40"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
	assert.Len(t, out.Failure().Violations, 3)
}

func TestUpdateClientClearsNullFields(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryClientRepository()
	acme := createClient(t, repo, map[string]interface{}{
		"name": "Acme", "email": "hello@acme.io", "phone": "555-0100", "notes": "vip",
	})
	createClient(t, repo, map[string]interface{}{"name": "Globex"})
	p := usecase.New[UpdateInput, Client]("client.update", NewUpdateClient(repo))

	out := p.Run(ctx, map[string]interface{}{"id": acme.ID.String(), "email": nil, "notes": "gold"})
	require.True(t, out.IsSuccess())
	assert.Nil(t, out.Value().Email)
	require.NotNil(t, out.Value().Phone)
	assert.Equal(t, "555-0100", *out.Value().Phone)
	require.NotNil(t, out.Value().Notes)
	assert.Equal(t, "gold", *out.Value().Notes)

	out = p.Run(ctx, map[string]interface{}{"id": acme.ID.String(), "name": "Globex"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, out.Failure().Code)

	out = p.Run(ctx, map[string]interface{}{"id": acme.ID.String(), "name": nil})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)

	out = p.Run(ctx, map[string]interface{}{"id": uuid.NewString()})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, out.Failure().Code)
}

func TestListClients(t *testing.T) {
	repo := NewInMemoryClientRepository()
	createClient(t, repo, map[string]interface{}{"name": "Acme", "email": "hello@acme.io"})
	createClient(t, repo, map[string]interface{}{"name": "Acme Labs"})
	createClient(t, repo, map[string]interface{}{"name": "Globex", "phone": "555-0199"})
	p := usecase.New[ListInput, repository.Paginated[Client]]("client.list", NewListClients(repo))

	out := p.Run(context.Background(), map[string]interface{}{"name": "acme"})
	require.True(t, out.IsSuccess())
	assert.Equal(t, 2, out.Value().Pagination.Total)

	out = p.Run(context.Background(), map[string]interface{}{"email": "ACME.IO"})
	require.True(t, out.IsSuccess())
	require.Len(t, out.Value().Data, 1)
	assert.Equal(t, "Acme", out.Value().Data[0].Name)

	out = p.Run(context.Background(), map[string]interface{}{"limit": float64(101)})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)

	out = p.Run(context.Background(), map[string]interface{}{"page": float64(1e20)})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
	assert.Equal(t, "page", out.Failure().Violations[0].Field)

	out = p.Run(context.Background(), map[string]interface{}{"page": float64(1 << 30), "limit": float64(100)})
	require.True(t, out.IsSuccess(), "%v", out.Failure())
	assert.Empty(t, out.Value().Data)
	assert.Equal(t, 3, out.Value().Pagination.Total)
}

func TestGetAndDeleteClient(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryClientRepository()
	acme := createClient(t, repo, map[string]interface{}{"name": "Acme"})
	get := usecase.New[IDInput, Client]("client.get", NewGetClient(repo))
	del := usecase.New[IDInput, Deleted]("client.delete", NewDeleteClient(repo))

	require.True(t, get.Run(ctx, map[string]interface{}{"id": acme.ID.String()}).IsSuccess())
	require.True(t, del.Run(ctx, map[string]interface{}{"id": acme.ID.String()}).IsSuccess())

	out := get.Run(ctx, map[string]interface{}{"id": acme.ID.String()})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, out.Failure().Code)

	gone := del.Run(ctx, map[string]interface{}{"id": acme.ID.String()})
	require.True(t, gone.IsFailure())
	assert.Equal(t, apperrors.ErrCodeNotFound, gone.Failure().Code)
}

func TestGetClientRejectsMalformedID(t *testing.T) {
	repo := new(MockRepository)
	get := usecase.New[IDInput, Client]("client.get", NewGetClient(repo))

	out := get.Run(context.Background(), map[string]interface{}{"id": "not-uuid"})
	require.True(t, out.IsFailure())
	assert.Equal(t, apperrors.ErrCodeInvalidInput, out.Failure().Code)
	assert.Equal(t, 400, out.Failure().HTTPStatusCode())
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
