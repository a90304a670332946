package mocks

import (
	"context"

	"clientportal/internal/model"
	"clientportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockClientService struct {
	mock.Mock
}

var _ service.ClientService = (*MockClientService)(nil)

func (m *MockClientService) List(ctx context.Context) ([]model.ClientView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientView), args.Error(1)
}

func (m *MockClientService) Get(ctx context.Context, id string) (model.ClientView, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ClientView), args.Bool(1), args.Error(2)
}

func (m *MockClientService) Create(ctx context.Context, in service.CreateInput) (model.ClientView, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.ClientView), args.Error(1)
}

func (m *MockClientService) Update(ctx context.Context, id string, in service.UpdateInput) (model.ClientView, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.ClientView), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
