package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository/sqlite"
	"github.com/vytor/readwithcard/internal/services"
	"github.com/vytor/readwithcard/internal/testutil"
)

type SpreadsheetServiceTestSuite struct {
	suite.Suite
	db     *db.DB
	decks  services.DeckService
	cards  services.CardService
	sheets services.SpreadsheetService
}

func (s *SpreadsheetServiceTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	deckRepo := sqlite.NewDeckRepository(s.db.DB)
	s.decks = services.NewDeckService(deckRepo)
	s.cards = services.NewCardService(sqlite.NewCardRepository(s.db.DB), deckRepo)
	s.sheets = services.NewSpreadsheetService(s.decks, s.cards)
}

func (s *SpreadsheetServiceTestSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SpreadsheetServiceTestSuite) TestExportThenImportIntoAnotherDeck() {
	ctx := context.Background()
	source, err := s.decks.CreateDeck(ctx, models.DeckInput{Name: "Source"})
	s.Require().NoError(err)
	target, err := s.decks.CreateDeck(ctx, models.DeckInput{Name: "Target"})
	s.Require().NoError(err)

	_, err = s.cards.BulkCreateCards(ctx, source.ID, []models.CardFields{
		{Word: "quiet", TranslatedWord: "sessiz", PartOfSpeech: "adjective"},
		{Word: "harbor", TranslatedWord: "liman", Sentence: "The harbor was quiet."},
	})
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(s.sheets.ExportDeck(ctx, source.ID, &buf))

	imported, err := s.sheets.ImportDeck(ctx, target.ID, &buf)
	s.Require().NoError(err)
	s.Assert().Len(imported, 2)

	cards, err := s.cards.GetCardsByDeck(ctx, target.ID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	words := map[string]models.Card{}
	for _, c := range cards {
		words[c.Word] = c
	}
	s.Assert().Equal("sessiz", words["quiet"].TranslatedWord)
	s.Assert().Equal("The harbor was quiet.", words["harbor"].Sentence)
	s.Assert().Equal(models.StatusNew, words["harbor"].Status)
}

func (s *SpreadsheetServiceTestSuite) TestExportUnknownDeck() {
	var buf bytes.Buffer
	err := s.sheets.ExportDeck(context.Background(), 999, &buf)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Zero(buf.Len())
}

func (s *SpreadsheetServiceTestSuite) TestImportRejectsGarbage() {
	deck, err := s.decks.CreateDeck(context.Background(), models.DeckInput{Name: "Target"})
	s.Require().NoError(err)

	_, err = s.sheets.ImportDeck(context.Background(), deck.ID, bytes.NewBufferString("not a workbook"))
	s.Assert().Error(err)

	cards, err := s.cards.GetCardsByDeck(context.Background(), deck.ID)
	s.Require().NoError(err)
	s.Assert().Empty(cards)
}

func TestSpreadsheetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SpreadsheetServiceTestSuite))
}
