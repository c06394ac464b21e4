package jobs

import (
	"context"

	"github.com/vytor/readwithcard/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	reviewPool *worker.Pool
	cards      worker.CardReviewer
	streaks    worker.StreakRecorder
}

// NewWorkerQueue creates a new WorkerQueue implementation. reviewPool should
// have a single worker so reviews land in the order they were made.
func NewWorkerQueue(reviewPool *worker.Pool, cards worker.CardReviewer, streaks worker.StreakRecorder) JobQueue {
	return &WorkerQueue{
		reviewPool: reviewPool,
		cards:      cards,
		streaks:    streaks,
	}
}

func (q *WorkerQueue) job(r Review) *worker.ReviewJob {
	return &worker.ReviewJob{
		Cards:         q.cards,
		Streaks:       q.streaks,
		CardID:        r.CardID,
		IsCorrect:     r.IsCorrect,
		At:            r.At,
		ReviewedToday: r.ReviewedToday,
	}
}

func (q *WorkerQueue) EnqueueReview(r Review) error {
	return q.reviewPool.Submit(q.job(r))
}

func (q *WorkerQueue) RunReview(ctx context.Context, r Review) error {
	return q.reviewPool.SubmitAndWait(ctx, q.job(r))
}
