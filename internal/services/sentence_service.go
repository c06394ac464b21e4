package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/readwithcard/internal/cardapi"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

// SentenceService drives sentence practice for a card: the remote chat checks
// the learner's sentence and the accepted sentence is stored on the card.
type SentenceService interface {
	CheckSentence(ctx context.Context, cardID int64, sentence string, langs models.LanguagePair) (*models.ChatReply, error)
	ContinueChat(ctx context.Context, sessionID, message string) (*models.ChatReply, error)
	SaveSentence(ctx context.Context, cardID int64, sentence string) error
}

type sentenceService struct {
	cards    CardService
	client   cardapi.ClientInterface
	defaults models.LanguagePair
	now      func() time.Time
}

// NewSentenceService creates a new SentenceService
func NewSentenceService(cards CardService, client cardapi.ClientInterface, defaults models.LanguagePair) SentenceService {
	return &sentenceService{cards: cards, client: client, defaults: defaults, now: time.Now}
}

// withDefaults fills unset languages from the configured pair.
func withDefaults(langs, defaults models.LanguagePair) models.LanguagePair {
	if strings.TrimSpace(langs.Native) == "" {
		langs.Native = defaults.Native
	}
	if strings.TrimSpace(langs.Learning) == "" {
		langs.Learning = defaults.Learning
	}
	return langs
}

func (s *sentenceService) CheckSentence(ctx context.Context, cardID int64, sentence string, langs models.LanguagePair) (*models.ChatReply, error) {
	log := logger.FromContext(ctx).WithField("card_id", cardID)

	card, err := s.cards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	log.Debug("checking sentence for word=%s", card.Word)
	reply, err := s.client.CheckSentence(ctx, card.Word, sentence, withDefaults(langs, s.defaults))
	if err != nil {
		log.Warn("sentence check failed: %v", err)
		return nil, err
	}
	return reply, nil
}

func (s *sentenceService) ContinueChat(ctx context.Context, sessionID, message string) (*models.ChatReply, error) {
	logger.FromContext(ctx).Debug("continuing chat: session_id=%s", sessionID)
	return s.client.ContinueChat(ctx, sessionID, message)
}

func (s *sentenceService) SaveSentence(ctx context.Context, cardID int64, sentence string) error {
	return s.cards.SaveSentence(ctx, cardID, sentence, s.now())
}
