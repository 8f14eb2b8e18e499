// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/jobscheduler"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownJob     = errors.New("unknown job")
	ErrJobRunning     = errors.New("job is already running")
	ErrDuplicateJob   = errors.New("job already registered")
	ErrAlreadyStarted = errors.New("scheduler already started")
)

type JobFunc func(ctx context.Context) error

type entry struct {
	id   cron.EntryID
	fn   JobFunc
	info jobscheduler.JobInfo
}

type Config struct {
	Location   *time.Location
	JobTimeout time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	logger  *logging.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
	now     func() time.Time

	mu      sync.Mutex
	jobs    map[string]*entry
	running bool
	wg      sync.WaitGroup
}

func New(cfg Config, logger *logging.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger))),
		),
		cfg:     cfg,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
		now:     time.Now,
		jobs:    make(map[string]*entry),
	}
}

// Add registers fn under name. A tick that arrives while the previous run of
// the same job is still going is skipped.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	e := &entry{
		fn: fn,
		info: jobscheduler.JobInfo{
			Name:     name,
			Schedule: spec,
			Status:   jobscheduler.StatusIdle,
		},
	}
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.execute(s.baseCtx, name); err != nil && !errors.Is(err, ErrJobRunning) {
			s.logger.Warn("scheduled job finished with error", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}
	e.id = id
	s.jobs[name] = e
	return nil
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyStarted
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs), "location", s.cfg.Location.String())
	return nil
}

// Stop halts the ticker, cancels running jobs and waits for them to return
// or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if wasRunning {
		<-s.cron.Stop().Done()
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// Trigger runs the job now, outside its schedule, and waits for it.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	return s.execute(ctx, name)
}

func (s *Scheduler) execute(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if e.info.Status == jobscheduler.StatusRunning {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "skipping job tick, previous run still active", "job", name)
		return fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	e.info.Status = jobscheduler.StatusRunning
	e.info.LastRunAt = s.now()
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	started := time.Now()
	s.logger.InfoContext(runCtx, "job started", "job", name)
	err := s.runSafely(runCtx, e.fn)
	elapsed := time.Since(started)

	s.mu.Lock()
	e.info.Runs++
	e.info.LastDuration = elapsed
	if err != nil {
		e.info.Failures++
		e.info.Status = jobscheduler.StatusFailed
		e.info.LastError = err.Error()
	} else {
		e.info.Status = jobscheduler.StatusCompleted
		e.info.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(runCtx, "job failed", "job", name, "duration_ms", elapsed.Milliseconds(), "error", err)
		return err
	}
	s.logger.InfoContext(runCtx, "job completed", "job", name, "duration_ms", elapsed.Milliseconds())
	return nil
}

func (s *Scheduler) runSafely(ctx context.Context, fn JobFunc) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("job panicked: %v", recovered)
		}
	}()
	return fn(ctx)
}

// Jobs lists registered jobs sorted by name.
func (s *Scheduler) Jobs() []jobscheduler.JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]jobscheduler.JobInfo, 0, len(s.jobs))
	for _, e := range s.jobs {
		info := e.info
		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			info.NextRunAt = next
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
