package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/flashcard"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository"
)

// CardService owns the card lifecycle. It is the only writer of a card's
// learning progress.
type CardService interface {
	CreateCard(ctx context.Context, deckID int64, fields models.CardFields) (*models.Card, error)
	BulkCreateCards(ctx context.Context, deckID int64, fields []models.CardFields) ([]models.Card, error)
	UpdateCard(ctx context.Context, cardID int64, fields models.CardFields) (*models.Card, error)
	DeleteCard(ctx context.Context, cardID int64) error
	GetCard(ctx context.Context, cardID int64) (*models.Card, error)
	GetCardsByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	GetCardsByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error)
	GetStats(ctx context.Context) (models.CardStats, error)
	GetDueCards(ctx context.Context, now time.Time) ([]models.Card, error)
	CountDueCards(ctx context.Context, now time.Time) (int, error)
	ApplyReview(ctx context.Context, cardID int64, isCorrect bool, now time.Time) (*models.Card, error)
	SaveSentence(ctx context.Context, cardID int64, sentence string, now time.Time) error
}

type cardService struct {
	cardRepo repository.CardRepository
	deckRepo repository.DeckRepository
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, deckRepo repository.DeckRepository) CardService {
	return &cardService{cardRepo: cardRepo, deckRepo: deckRepo}
}

func validateFields(field string, f models.CardFields) error {
	if strings.TrimSpace(f.Word) == "" {
		return errors.NewValidationError(field, "word cannot be empty")
	}
	return nil
}

func normalizeFields(f models.CardFields) models.CardFields {
	f.Word = strings.TrimSpace(f.Word)
	return f
}

func newCard(deckID int64, f models.CardFields, now time.Time) models.Card {
	return models.Card{
		DeckID:         deckID,
		Word:           f.Word,
		TranslatedWord: f.TranslatedWord,
		Description:    f.Description,
		Pronunciation:  f.Pronunciation,
		PartOfSpeech:   f.PartOfSpeech,
		Synonyms:       f.Synonyms,
		Sentence:       f.Sentence,
		ImageURI:       f.ImageURI,
		Status:         models.StatusNew,
		CreatedAt:      now,
	}
}

func (s *cardService) ensureDeck(ctx context.Context, deckID int64) error {
	if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("deck", deckID)
		}
		return errors.NewStoreError("get deck", err)
	}
	return nil
}

func (s *cardService) CreateCard(ctx context.Context, deckID int64, fields models.CardFields) (*models.Card, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("creating card: word=%s", fields.Word)

	if err := validateFields("word", fields); err != nil {
		return nil, err
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}

	card := newCard(deckID, normalizeFields(fields), time.Now())
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewStoreError("create card", err)
	}
	card.ID = id

	log.Info("card created: id=%d", id)
	return &card, nil
}

func (s *cardService) BulkCreateCards(ctx context.Context, deckID int64, fields []models.CardFields) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("bulk creating %d cards", len(fields))

	for i, f := range fields {
		if err := validateFields(fmt.Sprintf("cards[%d]", i), f); err != nil {
			return nil, err
		}
	}
	if len(fields) == 0 {
		return []models.Card{}, nil
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}

	now := time.Now()
	cards := make([]models.Card, len(fields))
	for i, f := range fields {
		cards[i] = newCard(deckID, normalizeFields(f), now)
	}

	ids, err := s.cardRepo.InsertBatch(ctx, cards)
	if err != nil {
		log.Error("bulk create failed, nothing was saved: %v", err)
		return nil, errors.NewStoreError("bulk create cards", err)
	}
	for i := range cards {
		cards[i].ID = ids[i]
	}

	log.Info("bulk created %d cards", len(cards))
	return cards, nil
}

func (s *cardService) UpdateCard(ctx context.Context, cardID int64, fields models.CardFields) (*models.Card, error) {
	log := logger.FromContext(ctx).WithField("card_id", cardID)
	log.Debug("updating card")

	if err := validateFields("word", fields); err != nil {
		return nil, err
	}

	if err := s.cardRepo.UpdateFields(ctx, cardID, normalizeFields(fields)); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewStoreError("update card", err)
	}

	return s.GetCard(ctx, cardID)
}

func (s *cardService) DeleteCard(ctx context.Context, cardID int64) error {
	log := logger.FromContext(ctx).WithField("card_id", cardID)
	log.Debug("deleting card")

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewStoreError("delete card", err)
	}
	return nil
}

func (s *cardService) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		logger.FromContext(ctx).Error("failed to get card: %v", err)
		return nil, errors.NewStoreError("get card", err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) GetCardsByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list deck cards: %v", err)
		return nil, errors.NewStoreError("list deck cards", err)
	}
	return cards, nil
}

func (s *cardService) GetCardsByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	cards, err := s.cardRepo.ListByStatus(ctx, status)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list cards by status: %v", err)
		return nil, errors.NewStoreError("list cards by status", err)
	}
	return cards, nil
}

func (s *cardService) GetStats(ctx context.Context) (models.CardStats, error) {
	stats, err := s.cardRepo.CountByStatus(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load card stats: %v", err)
		return models.CardStats{}, errors.NewStoreError("card stats", err)
	}
	return stats, nil
}

func (s *cardService) GetDueCards(ctx context.Context, now time.Time) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.ListDue(ctx, now)
	if err != nil {
		log.Error("failed to load due cards: %v", err)
		return nil, errors.NewStoreError("due cards", err)
	}
	log.Debug("%d cards due at %s", len(cards), now.Format(time.RFC3339))
	return cards, nil
}

func (s *cardService) CountDueCards(ctx context.Context, now time.Time) (int, error) {
	count, err := s.cardRepo.CountDue(ctx, now)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count due cards: %v", err)
		return 0, errors.NewStoreError("count due cards", err)
	}
	return count, nil
}

func (s *cardService) ApplyReview(ctx context.Context, cardID int64, isCorrect bool, now time.Time) (*models.Card, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"card_id": cardID,
		"correct": isCorrect,
	})

	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	review := flashcard.ApplyReview(card.RightCount, isCorrect, now)
	log.Debug("applied review, right_count=%d, status=%s, next in %v", review.RightCount, review.Status, review.Delay)

	if err := s.cardRepo.UpdateProgress(ctx, cardID, review); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to persist review: %v", err)
		return nil, errors.NewStoreError("apply review", err)
	}

	card.RightCount = review.RightCount
	card.Status = review.Status
	card.LastReview = &review.LastReview
	card.NextReview = &review.NextReview
	return card, nil
}

func (s *cardService) SaveSentence(ctx context.Context, cardID int64, sentence string, now time.Time) error {
	log := logger.FromContext(ctx).WithField("card_id", cardID)

	if strings.TrimSpace(sentence) == "" {
		return errors.NewValidationError("sentence", "cannot be empty")
	}

	if err := s.cardRepo.UpdateSentence(ctx, cardID, strings.TrimSpace(sentence), now); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to save sentence: %v", err)
		return errors.NewStoreError("save sentence", err)
	}
	log.Debug("sentence saved")
	return nil
}
