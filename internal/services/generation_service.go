package services

import (
	"context"

	"github.com/vytor/readwithcard/internal/cardapi"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

// GenerationService turns text or a photographed page into card candidates
// and saves the accepted ones into a deck.
type GenerationService interface {
	GenerateFromText(ctx context.Context, text string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error)
	GenerateFromImage(ctx context.Context, image []byte, filename string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error)
	SaveGenerated(ctx context.Context, deckID int64, candidates []models.GeneratedCard) ([]models.Card, error)
}

type generationService struct {
	cards    CardService
	client   cardapi.ClientInterface
	defaults models.LanguagePair
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(cards CardService, client cardapi.ClientInterface, defaults models.LanguagePair) GenerationService {
	return &generationService{cards: cards, client: client, defaults: defaults}
}

func (s *generationService) GenerateFromText(ctx context.Context, text string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating cards from text: words=%d", len(words))

	cards, err := s.client.GenerateFromText(ctx, text, words, withDefaults(langs, s.defaults))
	if err != nil {
		log.Warn("text generation failed: %v", err)
		return nil, err
	}
	log.Info("generated %d card candidates from text", len(cards))
	return cards, nil
}

func (s *generationService) GenerateFromImage(ctx context.Context, image []byte, filename string, words []string, langs models.LanguagePair) ([]models.GeneratedCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating cards from image: bytes=%d, words=%d", len(image), len(words))

	cards, err := s.client.GenerateFromImage(ctx, image, filename, words, withDefaults(langs, s.defaults))
	if err != nil {
		log.Warn("image generation failed: %v", err)
		return nil, err
	}
	log.Info("generated %d card candidates from image", len(cards))
	return cards, nil
}

func (s *generationService) SaveGenerated(ctx context.Context, deckID int64, candidates []models.GeneratedCard) ([]models.Card, error) {
	fields := make([]models.CardFields, len(candidates))
	for i, c := range candidates {
		fields[i] = c.Fields()
	}
	return s.cards.BulkCreateCards(ctx, deckID, fields)
}
