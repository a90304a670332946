package mocks

import (
	"context"
	"time"

	"clientportal/internal/model"
	"clientportal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

var _ repository.ClientRepository = (*MockClientRepository)(nil)

func (m *MockClientRepository) ListActive(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *MockClientRepository) Get(ctx context.Context, id string) (model.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *MockClientRepository) Add(ctx context.Context, c model.Client) (model.Client, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(context.Context, model.Client) model.Client); ok {
		return f(ctx, c), args.Error(1)
	}
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c model.Client) (model.Client, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(context.Context, model.Client) model.Client); ok {
		return f(ctx, c), args.Error(1)
	}
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *MockClientRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockClientRepository) ExistsActive(ctx context.Context, number string, docType model.DocumentType) (bool, error) {
	args := m.Called(ctx, number, docType)
	return args.Bool(0), args.Error(1)
}
