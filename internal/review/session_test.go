package review

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/jobs"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/testutil/mocks"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func dueCards() []models.Card {
	return []models.Card{
		{ID: 1, DeckID: 10, Word: "apple", Status: models.StatusNew},
		{ID: 2, DeckID: 20, Word: "river", Status: models.StatusLearning},
		{ID: 3, DeckID: 10, Word: "stone", Status: models.StatusReviewing},
	}
}

func newTestSession(q jobs.JobQueue, reviewedToday int) *Session {
	s := NewSession("sess", dueCards(), reviewedToday, q)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSwipe_RejectsUnknownDirection(t *testing.T) {
	q := &mocks.MockJobQueue{}
	s := newTestSession(q, 0)

	_, err := s.Swipe(context.Background(), "up", 1)

	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 3, s.Remaining())
	q.AssertNotCalled(t, "EnqueueReview", mock.Anything)
}

func TestSwipe_UnknownCard(t *testing.T) {
	q := &mocks.MockJobQueue{}
	s := newTestSession(q, 0)

	_, err := s.Swipe(context.Background(), SwipeRight, 99)

	assert.True(t, errors.IsNotFound(err))
}

func TestSwipe_QueuesBackgroundReviewWithRunningCount(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", jobs.Review{CardID: 1, IsCorrect: true, At: fixedNow, ReviewedToday: 6}).Return(nil).Once()
	q.On("EnqueueReview", jobs.Review{CardID: 2, IsCorrect: false, At: fixedNow, ReviewedToday: 7}).Return(nil).Once()
	s := newTestSession(q, 5)

	state, err := s.Swipe(context.Background(), SwipeRight, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Remaining)
	assert.Equal(t, int64(2), state.Current.ID)

	state, err = s.Swipe(context.Background(), SwipeLeft, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Remaining)
	assert.Equal(t, 7, state.ReviewedToday)
	assert.Equal(t, 2, state.Reviewed)
	assert.False(t, state.Completed)

	q.AssertExpectations(t)
	q.AssertNotCalled(t, "RunReview", mock.Anything, mock.Anything)
}

func TestSwipe_QueueFailureDoesNotBlockSession(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", mock.Anything).Return(stderrors.New("pool stopped"))
	s := newTestSession(q, 0)

	state, err := s.Swipe(context.Background(), SwipeRight, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, state.Remaining)
}

func TestSwipe_CursorWrapsToStart(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", mock.Anything).Return(nil)
	s := newTestSession(q, 0)
	s.cursor = 2

	state, err := s.Swipe(context.Background(), SwipeRight, 3)

	require.NoError(t, err)
	assert.Equal(t, 0, state.Cursor)
	assert.Equal(t, int64(1), state.Current.ID)
}

func TestSwipe_CursorFollowsCardWhenEarlierCardRemoved(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", mock.Anything).Return(nil)
	s := newTestSession(q, 0)
	s.cursor = 2

	state, err := s.Swipe(context.Background(), SwipeRight, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, state.Cursor)
	assert.Equal(t, int64(3), state.Current.ID)
}

func TestSwipe_LastCardAwaitsWritesThenCompletesOnce(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", mock.Anything).Return(nil).Twice()
	q.On("RunReview", mock.Anything, jobs.Review{CardID: 3, IsCorrect: true, At: fixedNow, ReviewedToday: 3}).Return(nil).Once()
	s := newTestSession(q, 0)

	completions := 0
	s.OnComplete(func(*Session) { completions++ })

	for _, id := range []int64{1, 2} {
		_, err := s.Swipe(context.Background(), SwipeRight, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, completions)

	state, err := s.Swipe(context.Background(), SwipeRight, 3)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.Nil(t, state.Current)
	assert.Equal(t, 1, completions)

	_, err = s.Swipe(context.Background(), SwipeRight, 3)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 1, completions)
	q.AssertExpectations(t)
}

func TestSwipe_FinalWriteFailureEndsSession(t *testing.T) {
	q := &mocks.MockJobQueue{}
	writeErr := errors.NewStoreError("apply review", stderrors.New("disk full"))
	q.On("RunReview", mock.Anything, mock.Anything).Return(writeErr).Once()
	s := NewSession("sess", dueCards()[:1], 0, q)

	completed, released := 0, 0
	s.OnComplete(func(*Session) { completed++ })
	s.release = func(*Session) { released++ }

	_, err := s.Swipe(context.Background(), SwipeLeft, 1)

	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, 0, completed)
	assert.Equal(t, 1, released)
	assert.False(t, s.Completed())
	assert.True(t, s.State().Failed)

	_, err = s.Swipe(context.Background(), SwipeLeft, 1)
	assert.True(t, errors.IsValidation(err))
	_, err = s.FilterByDeck(nil)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 1, released)
	q.AssertExpectations(t)
}

func TestSwipe_LastCardWaitOutlivesCancelledRequest(t *testing.T) {
	q := &mocks.MockJobQueue{}
	detached := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	q.On("RunReview", detached, mock.Anything).Return(nil).Once()
	s := NewSession("sess", dueCards()[:1], 0, q)

	completed, released := 0, 0
	s.OnComplete(func(*Session) { completed++ })
	s.release = func(*Session) { released++ }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := s.Swipe(ctx, SwipeRight, 1)

	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, released)
	q.AssertExpectations(t)
}

type fixedCounter struct {
	day   models.StreakDay
	calls int
}

func (f *fixedCounter) GetDailyStreak(ctx context.Context, date time.Time) models.StreakDay {
	f.calls++
	return f.day
}

func TestSwipe_ReloadsCountOnNewDay(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", jobs.Review{CardID: 1, IsCorrect: true, At: fixedNow, ReviewedToday: 3}).Return(nil).Once()
	q.On("EnqueueReview", jobs.Review{CardID: 2, IsCorrect: true, At: fixedNow, ReviewedToday: 4}).Return(nil).Once()

	counter := &fixedCounter{day: models.StreakDay{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), CardsReviewed: 2}}
	s := newTestSession(q, 40)
	s.day = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	s.counter = counter

	_, err := s.Swipe(context.Background(), SwipeRight, 1)
	require.NoError(t, err)
	state, err := s.Swipe(context.Background(), SwipeRight, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, state.ReviewedToday)
	assert.Equal(t, 1, counter.calls)
	q.AssertExpectations(t)
}

func TestFilterByDeck(t *testing.T) {
	q := &mocks.MockJobQueue{}
	q.On("EnqueueReview", mock.Anything).Return(nil)
	s := newTestSession(q, 0)
	s.cursor = 1

	deck := int64(10)
	state, err := s.FilterByDeck(&deck)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Cursor)
	assert.Equal(t, 2, state.Remaining)
	assert.Equal(t, int64(1), state.Current.ID)
	require.NotNil(t, state.DeckID)
	assert.Equal(t, int64(10), *state.DeckID)

	_, err = s.Swipe(context.Background(), SwipeRight, 1)
	require.NoError(t, err)

	state, err = s.FilterByDeck(nil)
	require.NoError(t, err)
	assert.Nil(t, state.DeckID)
	ids := make([]int64, 0, len(state.Cards))
	for _, c := range state.Cards {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{2, 3}, ids, "swiped cards do not come back")
}

func TestFilterByDeck_UnknownDeckEmptiesQueue(t *testing.T) {
	s := newTestSession(&mocks.MockJobQueue{}, 0)

	deck := int64(404)
	state, err := s.FilterByDeck(&deck)

	require.NoError(t, err)
	assert.Equal(t, 0, state.Remaining)
	assert.Nil(t, state.Current)
}
