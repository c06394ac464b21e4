package worker

import (
	"context"
	"time"

	"github.com/vytor/readwithcard/internal/models"
)

// CardReviewer applies a scheduled review to a stored card.
// This avoids import cycles by not importing the services package
type CardReviewer interface {
	ApplyReview(ctx context.Context, cardID int64, isCorrect bool, now time.Time) (*models.Card, error)
}

// StreakRecorder stores the running daily review count.
type StreakRecorder interface {
	RecordDailyStreak(ctx context.Context, date time.Time, cardsReviewed int) error
}
