package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository"
	"github.com/vytor/readwithcard/internal/repository/sqlite"
	"github.com/vytor/readwithcard/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db    *db.DB
	repo  repository.DeckRepository
	cards repository.CardRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db.DB)
	s.cards = sqlite.NewCardRepository(s.db.DB)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Deck{Name: "Travel", Description: "Airport words"})
	s.Require().NoError(err)

	_, err = s.cards.Insert(ctx, testutil.Card(id, "gate"))
	s.Require().NoError(err)

	deck, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("Travel", deck.Name)
	s.Assert().Equal("Airport words", deck.Description)
	s.Assert().Equal("", deck.ImageURI)
	s.Assert().Equal(1, deck.CardCount)
	s.Assert().False(deck.CreatedAt.IsZero())
}

func (s *DeckRepositorySuite) TestGet_NotFound() {
	deck, err := s.repo.Get(context.Background(), 12345)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(deck)
}

func (s *DeckRepositorySuite) TestList_NewestFirstWithCounts() {
	ctx := context.Background()

	first, err := s.repo.Insert(ctx, models.Deck{Name: "First", CreatedAt: testutil.Date(2024, 1, 1, 9)})
	s.Require().NoError(err)
	second, err := s.repo.Insert(ctx, models.Deck{Name: "Second", CreatedAt: testutil.Date(2024, 1, 2, 9)})
	s.Require().NoError(err)

	_, err = s.cards.InsertBatch(ctx, []models.Card{testutil.Card(first, "a"), testutil.Card(first, "b")})
	s.Require().NoError(err)

	decks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Assert().Equal(second, decks[0].ID)
	s.Assert().Equal(0, decks[0].CardCount)
	s.Assert().Equal(first, decks[1].ID)
	s.Assert().Equal(2, decks[1].CardCount)
}

func (s *DeckRepositorySuite) TestUpdate() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Deck{Name: "Draft"})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Update(ctx, models.Deck{ID: id, Name: "Final", ImageURI: "file://cover.png"}))

	deck, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("Final", deck.Name)
	s.Assert().Equal("file://cover.png", deck.ImageURI)

	s.Assert().ErrorIs(s.repo.Update(ctx, models.Deck{ID: 999, Name: "x"}), sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestDelete_CascadesToCards() {
	ctx := context.Background()

	keep, err := s.repo.Insert(ctx, models.Deck{Name: "Keep"})
	s.Require().NoError(err)
	drop, err := s.repo.Insert(ctx, models.Deck{Name: "Drop"})
	s.Require().NoError(err)

	ids, err := s.cards.InsertBatch(ctx, []models.Card{testutil.Card(drop, "x"), testutil.Card(drop, "y")})
	s.Require().NoError(err)
	_, err = s.cards.Insert(ctx, testutil.Card(keep, "z"))
	s.Require().NoError(err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO viewed_cards (deck_id, card_id, is_known) VALUES (?, ?, 1)`, drop, ids[0])
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, drop))

	_, err = s.repo.Get(ctx, drop)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	for _, id := range ids {
		_, err := s.cards.Get(ctx, id)
		s.Assert().ErrorIs(err, sql.ErrNoRows)
	}

	var viewed int
	s.Require().NoError(s.db.GetContext(ctx, &viewed, `SELECT COUNT(*) FROM viewed_cards`))
	s.Assert().Zero(viewed)

	remaining, err := s.cards.ListByDeck(ctx, keep)
	s.Require().NoError(err)
	s.Assert().Len(remaining, 1)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
