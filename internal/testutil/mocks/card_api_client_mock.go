package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/readwithcard/internal/models"
)

// MockCardAPIClient is a mock implementation of cardapi.ClientInterface
type MockCardAPIClient struct {
	mock.Mock
}

func (m *MockCardAPIClient) GenerateFromText(ctx context.Context, text string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	args := m.Called(ctx, text, words, langs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeneratedCard), args.Error(1)
}

func (m *MockCardAPIClient) GenerateFromImage(ctx context.Context, image []byte, filename string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	args := m.Called(ctx, image, filename, words, langs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeneratedCard), args.Error(1)
}

func (m *MockCardAPIClient) CheckSentence(ctx context.Context, word, sentence string, langs models.LanguagePair) (*models.ChatReply, error) {
	args := m.Called(ctx, word, sentence, langs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatReply), args.Error(1)
}

func (m *MockCardAPIClient) ContinueChat(ctx context.Context, sessionID, message string) (*models.ChatReply, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatReply), args.Error(1)
}
