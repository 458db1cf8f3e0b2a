package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"transportbilling/models"
)

// MockLRRepository is a mock implementation of repository.LRRepository.
type MockLRRepository struct {
	mock.Mock
}

func (m *MockLRRepository) GetRecord(ctx context.Context, id string) (*models.LRRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LRRecord), args.Error(1)
}

func (m *MockLRRepository) UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockLRRepository) ListAll(ctx context.Context) ([]*models.LRRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LRRecord), args.Error(1)
}
