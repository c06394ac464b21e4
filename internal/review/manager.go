package review

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/jobs"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

// DueCardSource loads the cards due for review.
type DueCardSource interface {
	GetDueCards(ctx context.Context, now time.Time) ([]models.Card, error)
}

// DailyCounter reads the review count stored for a day.
type DailyCounter interface {
	GetDailyStreak(ctx context.Context, date time.Time) models.StreakDay
}

// Manager keeps the live review sessions. Sessions are dropped when their
// last card is written (or fails to be) and when they are ended; writes
// already queued for them still run.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cards   DueCardSource
	streaks DailyCounter
	queue   jobs.JobQueue
	now     func() time.Time
	newID   func() (string, error)
}

// NewManager creates a session manager.
func NewManager(cards DueCardSource, streaks DailyCounter, queue jobs.JobQueue) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cards:    cards,
		streaks:  streaks,
		queue:    queue,
		now:      time.Now,
		newID:    func() (string, error) { return gonanoid.New() },
	}
}

// Start snapshots the cards due now and opens a session over them.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	now := m.now()

	due, err := m.cards.GetDueCards(ctx, now)
	if err != nil {
		return nil, err
	}
	today := m.streaks.GetDailyStreak(ctx, now)

	id, err := m.newID()
	if err != nil {
		log.Error("failed to generate session id: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s := NewSession(id, due, today.CardsReviewed, m.queue)
	s.now = m.now
	s.day = today.Date
	s.counter = m.streaks
	s.release = m.forget

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Info("session %s started with %d due cards, %d reviewed today", id, len(due), today.CardsReviewed)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return s, nil
}

// End forgets the session.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return errors.NewNotFoundError("session", id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) forget(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
}
