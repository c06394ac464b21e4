package cardapi

import (
	"context"

	"github.com/vytor/readwithcard/internal/models"
)

// ClientInterface defines the card generation and sentence chat operations.
type ClientInterface interface {
	GenerateFromText(ctx context.Context, text string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error)
	GenerateFromImage(ctx context.Context, image []byte, filename string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error)
	CheckSentence(ctx context.Context, word, sentence string, langs models.LanguagePair) (*models.ChatReply, error)
	ContinueChat(ctx context.Context, sessionID, message string) (*models.ChatReply, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
