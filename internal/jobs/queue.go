package jobs

import (
	"context"
	"time"
)

// Review is one swipe waiting to be persisted.
type Review struct {
	CardID        int64
	IsCorrect     bool
	At            time.Time
	ReviewedToday int
}

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueReview persists a review in the background. Failures are
	// logged by the worker and never reported to the caller.
	EnqueueReview(review Review) error
	// RunReview persists a review after every review queued before it and
	// returns its outcome.
	RunReview(ctx context.Context, review Review) error
}
