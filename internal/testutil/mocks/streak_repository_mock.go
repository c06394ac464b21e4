package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStreakRepository is a mock implementation of repository.StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) Upsert(ctx context.Context, date string, cardsReviewed int) error {
	args := m.Called(ctx, date, cardsReviewed)
	return args.Error(0)
}

func (m *MockStreakRepository) Get(ctx context.Context, date string) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

func (m *MockStreakRepository) Range(ctx context.Context, from, to string) (map[string]int, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
