package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/jobs"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

// Swipe directions.
const (
	SwipeRight = "right"
	SwipeLeft  = "left"
)

// State is a point-in-time view of a session.
type State struct {
	ID            string        `json:"session_id"`
	Current       *models.Card  `json:"current"`
	Cards         []models.Card `json:"cards"`
	Cursor        int           `json:"cursor"`
	Remaining     int           `json:"remaining"`
	Reviewed      int           `json:"reviewed"`
	ReviewedToday int           `json:"reviewed_today"`
	DeckID        *int64        `json:"deck_id,omitempty"`
	Completed     bool          `json:"completed"`
	Failed        bool          `json:"failed"`
}

// Session walks a fixed snapshot of due cards. The snapshot is never
// re-read from the store; reviewed cards are dropped from it as they are
// swiped.
type Session struct {
	mu sync.Mutex

	id            string
	all           []models.Card
	queue         []models.Card
	cursor        int
	deckID        *int64
	reviewed      int
	reviewedToday int
	finishing     bool
	completed     bool
	failed        bool
	startedAt     time.Time

	// day is the calendar day reviewedToday belongs to. When counter is
	// set, a swipe on a later day reloads the count for that day.
	day     time.Time
	counter DailyCounter

	jobs       jobs.JobQueue
	now        func() time.Time
	onComplete func(*Session)
	release    func(*Session)
}

// NewSession starts a session over dueCards, which must already be in
// review order. reviewedToday is the count already stored for today.
func NewSession(id string, dueCards []models.Card, reviewedToday int, queue jobs.JobQueue) *Session {
	all := make([]models.Card, len(dueCards))
	copy(all, dueCards)
	active := make([]models.Card, len(all))
	copy(active, all)

	return &Session{
		id:            id,
		all:           all,
		queue:         active,
		reviewedToday: reviewedToday,
		startedAt:     time.Now(),
		jobs:          queue,
		now:           time.Now,
	}
}

func (s *Session) ID() string { return s.id }

// OnComplete registers fn to run once when the last card's writes land.
func (s *Session) OnComplete(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

func parseDirection(direction string) (bool, error) {
	switch direction {
	case SwipeRight:
		return true, nil
	case SwipeLeft:
		return false, nil
	default:
		return false, errors.NewValidationError("direction", fmt.Sprintf("must be %q or %q, got %q", SwipeRight, SwipeLeft, direction))
	}
}

func indexOf(cards []models.Card, id int64) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

func without(cards []models.Card, i int) []models.Card {
	return append(cards[:i:i], cards[i+1:]...)
}

// Swipe records the outcome for cardID. The card leaves the session at
// once. Its writes are queued in the background, except for the last card,
// whose writes are awaited before the session completes.
func (s *Session) Swipe(ctx context.Context, direction string, cardID int64) (State, error) {
	isCorrect, err := parseDirection(direction)
	if err != nil {
		return State{}, err
	}

	log := logger.FromContext(ctx).WithPrefix("review").WithFields(map[string]any{
		"session_id": s.id,
		"card_id":    cardID,
	})

	s.mu.Lock()
	if err := s.closedLocked(); err != nil {
		s.mu.Unlock()
		return State{}, err
	}

	idx := indexOf(s.queue, cardID)
	if idx < 0 {
		s.mu.Unlock()
		return State{}, errors.NewNotFoundError("card in session", cardID)
	}

	s.queue = without(s.queue, idx)
	if i := indexOf(s.all, cardID); i >= 0 {
		s.all = without(s.all, i)
	}
	if idx < s.cursor {
		s.cursor--
	}
	if s.cursor >= len(s.queue) {
		s.cursor = 0
	}
	at := s.now()
	s.rollDayLocked(ctx, at)
	s.reviewed++
	s.reviewedToday++

	review := jobs.Review{
		CardID:        cardID,
		IsCorrect:     isCorrect,
		At:            at,
		ReviewedToday: s.reviewedToday,
	}

	if len(s.queue) > 0 {
		state := s.stateLocked()
		s.mu.Unlock()

		if err := s.jobs.EnqueueReview(review); err != nil {
			log.Warn("review not queued, progress for this card is lost: %v", err)
		}
		log.Debug("swiped %s, %d cards left", direction, state.Remaining)
		return state, nil
	}

	s.finishing = true
	s.mu.Unlock()

	log.Debug("last card swiped %s, waiting for writes", direction)
	// The job runs on the pool whatever happens to the caller, so only
	// the wait is tied to the session, not to the request.
	if err := s.jobs.RunReview(context.WithoutCancel(ctx), review); err != nil {
		s.mu.Lock()
		s.finishing = false
		s.failed = true
		release := s.release
		s.mu.Unlock()

		log.WithError(err).Error("final review failed, session ended without completing")
		if release != nil {
			release(s)
		}
		return State{}, err
	}

	s.mu.Lock()
	s.finishing = false
	s.completed = true
	state := s.stateLocked()
	fn, release := s.onComplete, s.release
	s.mu.Unlock()

	log.Info("session completed: %d cards reviewed in %v", state.Reviewed, time.Since(s.startedAt).Round(time.Second))
	if release != nil {
		release(s)
	}
	if fn != nil {
		fn(s)
	}
	return state, nil
}

func (s *Session) closedLocked() error {
	switch {
	case s.failed:
		return errors.NewValidationError("session", "session ended after a failed write")
	case s.completed || s.finishing:
		return errors.NewValidationError("session", "session already completed")
	}
	return nil
}

// rollDayLocked reloads the running count when at falls on a later
// calendar day than the one the count was read for.
func (s *Session) rollDayLocked(ctx context.Context, at time.Time) {
	if s.counter == nil || s.day.IsZero() {
		return
	}
	y, m, d := at.In(s.day.Location()).Date()
	dy, dm, dd := s.day.Date()
	if y == dy && m == dm && d == dd {
		return
	}
	today := s.counter.GetDailyStreak(ctx, at)
	logger.FromContext(ctx).WithPrefix("review").Info("session %s crossed into %s, count reset to %d",
		s.id, today.DateString(), today.CardsReviewed)
	s.day = today.Date
	s.reviewedToday = today.CardsReviewed
}

// FilterByDeck rebuilds the active queue from the snapshot, keeping only
// cards of deckID. A nil deckID restores every remaining card.
func (s *Session) FilterByDeck(deckID *int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closedLocked(); err != nil {
		return State{}, err
	}

	queue := make([]models.Card, 0, len(s.all))
	for _, c := range s.all {
		if deckID == nil || c.DeckID == *deckID {
			queue = append(queue, c)
		}
	}

	s.queue = queue
	s.cursor = 0
	if deckID != nil {
		id := *deckID
		s.deckID = &id
	} else {
		s.deckID = nil
	}
	return s.stateLocked(), nil
}

// Current returns the card under the cursor, or nil when the queue is empty.
func (s *Session) Current() *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) currentLocked() *models.Card {
	if len(s.queue) == 0 {
		return nil
	}
	c := s.queue[s.cursor]
	return &c
}

func (s *Session) stateLocked() State {
	cards := make([]models.Card, len(s.queue))
	copy(cards, s.queue)

	var deckID *int64
	if s.deckID != nil {
		id := *s.deckID
		deckID = &id
	}

	return State{
		ID:            s.id,
		Current:       s.currentLocked(),
		Cards:         cards,
		Cursor:        s.cursor,
		Remaining:     len(s.queue),
		Reviewed:      s.reviewed,
		ReviewedToday: s.reviewedToday,
		DeckID:        deckID,
		Completed:     s.completed,
		Failed:        s.failed,
	}
}
