package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// UnitProcessor runs one import unit to completion.
type UnitProcessor interface {
	ProcessFile(ctx context.Context, path string) pipeline.UnitResult
}

// ProcessorQueue feeds queued paths to a single worker, so units are imported
// one at a time in arrival order.
type ProcessorQueue struct {
	proc     UnitProcessor
	logger   *slog.Logger
	timeout  time.Duration
	onResult func(pipeline.UnitResult)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithResultHandler registers fn to receive every unit outcome. It runs on the
// worker goroutine.
func WithResultHandler(fn func(pipeline.UnitResult)) Option {
	return func(q *ProcessorQueue) {
		q.onResult = fn
	}
}

func NewProcessorQueue(proc UnitProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.logger.Info("worker started")

			for job := range q.ch {
				ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
				if job.RequestID != "" {
					ctx = common.WithRequestID(ctx, job.RequestID)
				}
				res := q.proc.ProcessFile(ctx, job.Path)
				cancel()

				if res.OK() {
					q.logger.Info("processed file", "path", job.Path, "status", res.Status,
						"queued_ms", time.Since(job.SubmittedAt).Milliseconds())
				} else {
					q.logger.Warn("file not fully imported", "path", job.Path, "status", res.Status, "error", res.ErrString())
				}
				if q.onResult != nil {
					q.onResult(res)
				}
			}

			q.logger.Info("worker stopped")
		}()
	})
}

// Enqueue blocks while the queue is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued file", "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for queued jobs to finish or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
