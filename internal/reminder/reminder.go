package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/readwithcard/internal/logger"
)

// DueCounter counts the cards due at a given time.
type DueCounter interface {
	CountDueCards(ctx context.Context, now time.Time) (int, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	NotifyDue(ctx context.Context, count int) error
}

// LogNotifier reports due cards to the application log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Default()
	}
	return &LogNotifier{log: log.WithPrefix("reminder")}
}

func (n *LogNotifier) NotifyDue(ctx context.Context, count int) error {
	n.log.Info("%d cards are waiting for review", count)
	return nil
}

// Scheduler periodically checks for due cards and notifies when there are any.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cards     DueCounter
	notifier  Notifier
	interval  time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// New creates a scheduler that checks every interval. A zero interval
// disables it.
func New(cards DueCounter, notifier Notifier, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		cards:     cards,
		notifier:  notifier,
		interval:  interval,
		now:       time.Now,
		log:       logger.Default().WithPrefix("reminder"),
	}
}

// Start schedules the check and runs it once right away.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("reminders disabled")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.run); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("reminders every %v", s.interval)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	if s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	ctx := logger.NewContext(context.Background(), s.log)
	if err := s.Check(ctx); err != nil {
		s.log.Error("reminder check failed: %v", err)
	}
}

// Check counts the cards due now and notifies when there is at least one.
func (s *Scheduler) Check(ctx context.Context) error {
	count, err := s.cards.CountDueCards(ctx, s.now())
	if err != nil {
		return err
	}
	if count == 0 {
		s.log.Debug("no cards due")
		return nil
	}
	return s.notifier.NotifyDue(ctx, count)
}
