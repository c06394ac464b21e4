package services

import (
	"context"
	"io"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/spreadsheet"
)

// SpreadsheetService moves a deck's cards in and out of xlsx workbooks.
type SpreadsheetService interface {
	ExportDeck(ctx context.Context, deckID int64, w io.Writer) error
	ImportDeck(ctx context.Context, deckID int64, r io.Reader) ([]models.Card, error)
}

type spreadsheetService struct {
	decks DeckService
	cards CardService
}

// NewSpreadsheetService creates a new SpreadsheetService
func NewSpreadsheetService(decks DeckService, cards CardService) SpreadsheetService {
	return &spreadsheetService{decks: decks, cards: cards}
}

func (s *spreadsheetService) ExportDeck(ctx context.Context, deckID int64, w io.Writer) error {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)

	if _, err := s.decks.GetDeck(ctx, deckID); err != nil {
		return err
	}
	cards, err := s.cards.GetCardsByDeck(ctx, deckID)
	if err != nil {
		return err
	}

	if err := spreadsheet.Export(w, cards); err != nil {
		log.Error("failed to export deck: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("exported %d cards", len(cards))
	return nil
}

// ImportDeck adds every row of the workbook to the deck, all or nothing.
func (s *spreadsheetService) ImportDeck(ctx context.Context, deckID int64, r io.Reader) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)

	fields, err := spreadsheet.Import(r)
	if err != nil {
		log.Warn("rejected workbook: %v", err)
		return nil, err
	}

	cards, err := s.cards.BulkCreateCards(ctx, deckID, fields)
	if err != nil {
		return nil, err
	}
	log.Info("imported %d cards", len(cards))
	return cards, nil
}
