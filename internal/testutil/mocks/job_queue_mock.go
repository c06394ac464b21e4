package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/readwithcard/internal/jobs"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueReview(review jobs.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockJobQueue) RunReview(ctx context.Context, review jobs.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
