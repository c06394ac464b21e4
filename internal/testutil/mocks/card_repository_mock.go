package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/readwithcard/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	args := m.Called(ctx, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCardRepository) UpdateFields(ctx context.Context, id int64, fields models.CardFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateProgress(ctx context.Context, id int64, review models.Review) error {
	args := m.Called(ctx, id, review)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateSentence(ctx context.Context, id int64, sentence string, at time.Time) error {
	args := m.Called(ctx, id, sentence, at)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ListDue(ctx context.Context, now time.Time) ([]models.Card, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CountByStatus(ctx context.Context) (models.CardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.CardStats), args.Error(1)
}
