package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/jobs"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository/sqlite"
	"github.com/vytor/readwithcard/internal/review"
	"github.com/vytor/readwithcard/internal/services"
	"github.com/vytor/readwithcard/internal/testutil"
	"github.com/vytor/readwithcard/internal/worker"
)

type ManagerTestSuite struct {
	suite.Suite
	db      *db.DB
	pool    *worker.Pool
	cards   services.CardService
	streaks services.StreakService
	manager *review.Manager
	deckID  int64
}

func (s *ManagerTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.deckID = testutil.MustCreateDeck(s.T(), s.db, "Verbs")

	cardRepo := sqlite.NewCardRepository(s.db.DB)
	deckRepo := sqlite.NewDeckRepository(s.db.DB)
	s.cards = services.NewCardService(cardRepo, deckRepo)
	s.streaks = services.NewStreakService(sqlite.NewStreakRepository(s.db.DB), time.UTC)

	s.pool = worker.NewPool(1, 16)
	s.pool.Start(context.Background())
	queue := jobs.NewWorkerQueue(s.pool, s.cards, s.streaks)
	s.manager = review.NewManager(s.cards, s.streaks, queue)
}

func (s *ManagerTestSuite) TearDownTest() {
	s.pool.Stop()
	testutil.MustClose(s.T(), s.db)
}

func (s *ManagerTestSuite) TestCompletesOnceAfterAllWritesLand() {
	ctx := context.Background()
	for _, w := range []string{"run", "jump", "swim"} {
		_, err := s.cards.CreateCard(ctx, s.deckID, models.CardFields{Word: w})
		s.Require().NoError(err)
	}
	s.Require().NoError(s.streaks.RecordDailyStreak(ctx, time.Now(), 4))

	session, err := s.manager.Start(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(1, s.manager.Len())
	s.Assert().Equal(3, session.Remaining())
	s.Assert().Equal(4, session.State().ReviewedToday)

	completions := 0
	session.OnComplete(func(*review.Session) { completions++ })

	var state review.State
	for session.Remaining() > 0 {
		card := session.Current()
		s.Require().NotNil(card)
		state, err = session.Swipe(ctx, review.SwipeRight, card.ID)
		s.Require().NoError(err)
	}

	s.Assert().True(state.Completed)
	s.Assert().Equal(1, completions)
	s.Assert().Equal(0, s.manager.Len())
	s.Assert().Equal(7, s.streaks.GetDailyStreak(ctx, time.Now()).CardsReviewed)

	stats, err := s.cards.GetStats(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.Learning)

	due, err := s.cards.GetDueCards(ctx, time.Now())
	s.Require().NoError(err)
	s.Assert().Empty(due)
}

func (s *ManagerTestSuite) TestEnd() {
	ctx := context.Background()
	_, err := s.cards.CreateCard(ctx, s.deckID, models.CardFields{Word: "read"})
	s.Require().NoError(err)

	session, err := s.manager.Start(ctx)
	s.Require().NoError(err)

	got, err := s.manager.Get(session.ID())
	s.Require().NoError(err)
	s.Assert().Same(session, got)

	s.Require().NoError(s.manager.End(session.ID()))
	_, err = s.manager.Get(session.ID())
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().True(errors.IsNotFound(s.manager.End(session.ID())))
}

func (s *ManagerTestSuite) TestForgetsSessionWhenFinalWriteFails() {
	ctx := context.Background()
	_, err := s.cards.CreateCard(ctx, s.deckID, models.CardFields{Word: "write"})
	s.Require().NoError(err)

	session, err := s.manager.Start(ctx)
	s.Require().NoError(err)
	card := session.Current()
	s.Require().NotNil(card)

	s.pool.Stop()
	_, err = session.Swipe(ctx, review.SwipeRight, card.ID)
	s.Require().ErrorIs(err, worker.ErrPoolStopped)

	s.Assert().False(session.Completed())
	s.Assert().Equal(0, s.manager.Len())
	_, err = s.manager.Get(session.ID())
	s.Assert().True(errors.IsNotFound(err))
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
