package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockObjectStorage is a mock implementation of storage.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, localPath, folder string) (string, error) {
	args := m.Called(ctx, localPath, folder)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) PutBuffer(ctx context.Context, data []byte, key, contentType string) (string, error) {
	args := m.Called(ctx, data, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, urlOrKey string) error {
	args := m.Called(ctx, urlOrKey)
	return args.Error(0)
}
