// Package jobqueue runs persistence work off the request path.
package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	"github.com/panjf2000/ants/v2"
)

var (
	ErrQueueFull = errors.New("background writer queue is full")
	ErrClosed    = errors.New("background writer is closed")
)

type BackgroundWriterConfig struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
	Retry        resilience.RetryPolicy
}

type WriterStats struct {
	Queued    int64 `json:"queued"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Rejected  int64 `json:"rejected"`
	InFlight  int64 `json:"in_flight"`
}

type writeJob struct {
	ctx   context.Context
	label string
	items []fixture.Enriched
}

// BackgroundWriter saves batches on an ants pool. Enqueue never blocks: a
// batch is either queued or rejected, and write failures are only logged.
type BackgroundWriter struct {
	sink       fixture.Sink
	pool       *ants.Pool
	queue      chan writeJob
	cfg        BackgroundWriterConfig
	logger     *logging.Logger
	pending    sync.WaitGroup
	dispatched chan struct{}

	mu     sync.RWMutex
	closed bool

	queued    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
	inFlight  atomic.Int64
}

var _ usecase.BackgroundPersister = (*BackgroundWriter)(nil)

func NewBackgroundWriter(sink fixture.Sink, cfg BackgroundWriterConfig, logger *logging.Logger) (*BackgroundWriter, error) {
	if sink == nil {
		return nil, fmt.Errorf("background writer sink is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}
	cfg.Retry = resilience.NormalizeRetryPolicy(cfg.Retry)
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("background_writer")

	pool, err := ants.NewPool(cfg.Workers,
		ants.WithLogger(logger),
		ants.WithPanicHandler(func(recovered any) {
			logger.Error("background write panicked", "panic", fmt.Sprint(recovered))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create background writer pool: %w", err)
	}

	w := &BackgroundWriter{
		sink:       sink,
		pool:       pool,
		queue:      make(chan writeJob, cfg.QueueSize),
		cfg:        cfg,
		logger:     logger,
		dispatched: make(chan struct{}),
	}
	go w.dispatch()
	return w, nil
}

// dispatch hands queued batches to the pool; Submit blocks while every
// worker is busy.
func (w *BackgroundWriter) dispatch() {
	defer close(w.dispatched)
	for job := range w.queue {
		if err := w.pool.Submit(func() {
			defer w.pending.Done()
			w.write(job.ctx, job.label, job.items)
		}); err != nil {
			w.pending.Done()
			w.queued.Add(-1)
			w.failed.Add(1)
			w.logger.Error("submit background write failed", "label", job.label, "error", err)
		}
	}
}

func (w *BackgroundWriter) Enqueue(ctx context.Context, label string, items []fixture.Enriched) error {
	if len(items) == 0 {
		return nil
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}

	job := writeJob{
		ctx:   context.WithoutCancel(ctx),
		label: label,
		items: append([]fixture.Enriched(nil), items...),
	}
	w.pending.Add(1)
	select {
	case w.queue <- job:
		w.queued.Add(1)
		return nil
	default:
		w.pending.Done()
		w.rejected.Add(1)
		return ErrQueueFull
	}
}

func (w *BackgroundWriter) write(ctx context.Context, label string, items []fixture.Enriched) {
	w.queued.Add(-1)
	w.inFlight.Add(1)
	defer w.inFlight.Add(-1)

	ctx, cancel := context.WithTimeout(ctx, w.cfg.WriteTimeout)
	defer cancel()

	started := time.Now()
	err := w.cfg.Retry.Run(ctx, func(ctx context.Context, attempt int) error {
		if err := w.sink.SaveBatch(ctx, items); err != nil {
			w.logger.WarnContext(ctx, "background write attempt failed", "label", label, "attempt", attempt, "error", err)
			return &resilience.RetryableError{Err: err, Wait: w.cfg.Retry.DefaultWait}
		}
		return nil
	})
	if err != nil {
		w.failed.Add(1)
		w.logger.ErrorContext(ctx, "background write failed", "label", label, "fixtures", len(items), "error", err)
		return
	}
	w.completed.Add(1)
	w.logger.InfoContext(ctx, "background write completed",
		"label", label,
		"fixtures", len(items),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

func (w *BackgroundWriter) Stats() WriterStats {
	return WriterStats{
		Queued:    w.queued.Load(),
		Completed: w.completed.Load(),
		Failed:    w.failed.Load(),
		Rejected:  w.rejected.Load(),
		InFlight:  w.inFlight.Load(),
	}
}

// Close stops accepting batches and waits for accepted ones until ctx ends.
func (w *BackgroundWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		<-w.dispatched
		w.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		w.pool.Release()
		return nil
	case <-ctx.Done():
		w.pool.Release()
		return fmt.Errorf("drain background writer: %w", ctx.Err())
	}
}
