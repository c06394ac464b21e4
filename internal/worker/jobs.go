package worker

import (
	"context"
	"time"

	"github.com/vytor/readwithcard/internal/logger"
	"golang.org/x/sync/errgroup"
)

// ReviewJob persists one swipe: the card's new schedule and the day's
// running review count.
type ReviewJob struct {
	Cards         CardReviewer
	Streaks       StreakRecorder
	CardID        int64
	IsCorrect     bool
	At            time.Time
	ReviewedToday int
}

func (j *ReviewJob) Name() string { return "review_card" }

func (j *ReviewJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"card_id":        j.CardID,
		"correct":        j.IsCorrect,
		"reviewed_today": j.ReviewedToday,
	})
	log.Debug("persisting review")

	// The writes are independent: a failed card update must not cancel the
	// day's count.
	var g errgroup.Group
	g.Go(func() error {
		_, err := j.Cards.ApplyReview(ctx, j.CardID, j.IsCorrect, j.At)
		return err
	})
	g.Go(func() error {
		return j.Streaks.RecordDailyStreak(ctx, j.At, j.ReviewedToday)
	})
	return g.Wait()
}
