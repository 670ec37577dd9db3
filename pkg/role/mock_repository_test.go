package role

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tendant/simple-crm/pkg/repository"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (Role, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Role), args.Error(1)
}

func (m *MockRepository) FindByName(ctx context.Context, name string) (Role, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Role), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, role Role) (Role, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(Role), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, role Role) (Role, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(Role), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Role, int, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]Role), args.Int(1), args.Error(2)
}

type stubUsage int

func (s stubUsage) CountByRole(ctx context.Context, roleID uuid.UUID) (int, error) {
	return int(s), nil
}
