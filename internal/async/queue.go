package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	processor "github.com/joseph-ayodele/purchase-tracker/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("import queue is shutting down")

// Job is one PDF waiting to be imported.
type Job struct {
	Path        string
	SubmittedAt time.Time
	RequestID   string
}

// Importer is the slice of processor.Importer the workers need.
type Importer interface {
	Import(ctx context.Context, path string) processor.Outcome
}

// ResultFunc receives every finished job. It is called from worker
// goroutines and must be safe for concurrent use.
type ResultFunc func(Job, processor.Outcome)

type ImportQueue struct {
	importer Importer
	onResult ResultFunc
	logger   *slog.Logger
	workers  int
	timeout  time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ImportQueue)

func WithWorkers(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ImportQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func WithResultFunc(fn ResultFunc) Option {
	return func(q *ImportQueue) {
		q.onResult = fn
	}
}

// NewImportQueue starts the worker pool immediately.
func NewImportQueue(importer Importer, logger *slog.Logger, opts ...Option) *ImportQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ImportQueue{
		importer: importer,
		logger:   logger,
		workers:  4,
		timeout:  2 * time.Minute,
		ch:       make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ImportQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("import.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.process(workerID, job)
				}
				q.logger.Debug("import.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ImportQueue) process(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	log := q.logger.With("request_id", job.RequestID, "worker_id", workerID)
	ctx = common.WithRequestID(ctx, job.RequestID)
	ctx = common.WithLogger(ctx, log)

	out := q.importer.Import(ctx, job.Path)
	if out.Err != nil {
		log.Error("import.job.failed", "path", job.Path, "err", out.Err)
	} else {
		log.Info("import.job.ok", "path", job.Path,
			"items", len(out.Result.Items), "wait_ms", time.Since(job.SubmittedAt).Milliseconds())
	}
	if q.onResult != nil {
		q.onResult(job, out)
	}
}

// Enqueue blocks while the buffer is full, until ctx is done.
func (q *ImportQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	if job.RequestID == "" {
		job.RequestID = uuid.NewString()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("import.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		return nil
	default:
	}
	q.logger.Warn("import.enqueue.backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for the queued ones to finish.
func (q *ImportQueue) Shutdown(ctx context.Context) {
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
		q.logger.Warn("import.queue.shutdown_interrupted")
	case <-done:
		q.logger.Info("import.queue.drained")
	}
}
