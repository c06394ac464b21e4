package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/readwithcard/internal/logger"
)

// ErrPoolStopped is returned when submitting to a pool that has been stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	workers int
	queue   int
	cancel  context.CancelFunc
	log     *logger.Logger
}

// NewPool creates a pool. A single worker runs jobs in submission order.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job, ok := <-p.jobs:
					if !ok || job == nil {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}
					p.run(ctx, workerLog, job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) run(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	// Create a context with the logger for the job
	jobCtx := logger.NewContext(ctx, jobLog)

	defer func() {
		if rec := recover(); rec != nil {
			jobLog.Error("job panicked after %v: %v", time.Since(start), rec)
			if w, ok := job.(*waitJob); ok {
				w.finish(errors.New("job panicked"))
			}
		}
	}()

	if err := job.Run(jobCtx); err != nil {
		jobLog.WithError(err).Error("job failed after %v", time.Since(start))
	} else {
		jobLog.Debug("job completed in %v", time.Since(start))
	}
}

// Stop stops accepting jobs, lets the workers drain what is already queued
// and waits for them to exit.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
	return nil
}

// SubmitAndWait queues a job behind everything already submitted and waits
// for it to finish, returning its error.
func (p *Pool) SubmitAndWait(ctx context.Context, job Job) error {
	w := &waitJob{Job: job, done: make(chan struct{})}
	if err := p.Submit(w); err != nil {
		return err
	}
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

type waitJob struct {
	Job
	once sync.Once
	done chan struct{}
	err  error
}

func (w *waitJob) Run(ctx context.Context) error {
	err := w.Job.Run(ctx)
	w.finish(err)
	return err
}

func (w *waitJob) finish(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}
