package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/repository/pgtest"
)

func TestPostgresRepository(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	phone := "555-0100"
	initech, err := repo.Create(ctx, Supplier{Name: "Initech", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", *initech.Phone)

	_, err = repo.Create(ctx, Supplier{Name: "Initech"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Create(ctx, Supplier{Name: "Umbrella"})
	require.NoError(t, err)

	suppliers, total, err := repo.List(ctx, Filter{}, repository.NewPage(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Initech", suppliers[0].Name)

	suppliers, _, err = repo.List(ctx, Filter{Name: "zzz"}, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, suppliers)
	assert.Empty(t, suppliers)

	initech.Phone = nil
	updated, err := repo.Update(ctx, initech)
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)

	require.NoError(t, repo.Delete(ctx, initech.ID))
	_, err = repo.FindByID(ctx, initech.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
