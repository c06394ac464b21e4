package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository"
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, input models.DeckInput) (*models.Deck, error)
	UpdateDeck(ctx context.Context, id int64, input models.DeckInput) (*models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
}

type deckService struct {
	deckRepo repository.DeckRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository) DeckService {
	return &deckService{deckRepo: deckRepo}
}

func validateDeck(input models.DeckInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	return nil
}

func (s *deckService) CreateDeck(ctx context.Context, input models.DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: name=%s", input.Name)

	if err := validateDeck(input); err != nil {
		return nil, err
	}

	id, err := s.deckRepo.Insert(ctx, models.Deck{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURI:    input.ImageURI,
	})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewStoreError("create deck", err)
	}

	return s.GetDeck(ctx, id)
}

func (s *deckService) UpdateDeck(ctx context.Context, id int64, input models.DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%d", id)

	if err := validateDeck(input); err != nil {
		return nil, err
	}

	err := s.deckRepo.Update(ctx, models.Deck{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURI:    input.ImageURI,
	})
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("deck", id)
		}
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewStoreError("update deck", err)
	}

	return s.GetDeck(ctx, id)
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("deck", id)
		}
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewStoreError("get deck", err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks")

	decks, err := s.deckRepo.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewStoreError("list decks", err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", id)

	if err := s.deckRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewStoreError("delete deck", err)
	}
	return nil
}
