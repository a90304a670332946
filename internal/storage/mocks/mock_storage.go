package mocks

import (
	"context"
	"io"

	"clientportal/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, r io.Reader, originalName string, category storage.Category) (storage.SavedFile, error) {
	args := m.Called(ctx, r, originalName, category)
	if f, ok := args.Get(0).(func(context.Context, io.Reader, string, storage.Category) storage.SavedFile); ok {
		return f(ctx, r, originalName, category), args.Error(1)
	}
	return args.Get(0).(storage.SavedFile), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, location string) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, location string) (bool, error) {
	args := m.Called(ctx, location)
	return args.Bool(0), args.Error(1)
}
