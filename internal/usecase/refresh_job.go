package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/id"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/runlock"
)

const refreshLockName = "refresh-by-date"

type RefreshConfig struct {
	Location *time.Location
	LockTTL  time.Duration
}

type DateRefreshResult struct {
	Date     string
	Fixtures int
	Error    string
}

type RefreshReport struct {
	RunID      string
	Skipped    bool
	Dates      []DateRefreshResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// RefreshJob re-fetches today's and tomorrow's fixtures by date and stores
// them without enrichment.
type RefreshJob struct {
	provider FixtureProvider
	sink     fixture.Sink
	reports  *cache.Snapshot[IngestionReport]
	locker   runlock.Locker
	ids      id.Generator
	cfg      RefreshConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewRefreshJob(
	provider FixtureProvider,
	sink fixture.Sink,
	reports *cache.Snapshot[IngestionReport],
	locker runlock.Locker,
	ids id.Generator,
	cfg RefreshConfig,
	logger *logging.Logger,
) *RefreshJob {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if locker == nil {
		locker = runlock.NewLocalLocker()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &RefreshJob{
		provider: provider,
		sink:     sink,
		reports:  reports,
		locker:   locker,
		ids:      ids,
		cfg:      cfg,
		logger:   logger.Named("refresh_job"),
		now:      time.Now,
	}
}

func (j *RefreshJob) Name() string {
	return refreshLockName
}

func (j *RefreshJob) Run(ctx context.Context) (RefreshReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshJob.Run")
	defer span.End()

	if j.provider == nil || j.sink == nil {
		return RefreshReport{}, fmt.Errorf("%w: refresh job needs a provider and a fixture store", ErrMisconfigured)
	}

	runID, err := j.ids.NewID()
	if err != nil {
		return RefreshReport{}, fmt.Errorf("generate run id: %w", err)
	}
	report := RefreshReport{
		RunID:     runID,
		Dates:     []DateRefreshResult{},
		StartedAt: j.now().UTC(),
	}
	logger := j.logger.With("run_id", runID)

	release, err := j.locker.Acquire(ctx, refreshLockName, j.cfg.LockTTL)
	switch {
	case errors.Is(err, runlock.ErrNotAcquired):
		report.Skipped = true
		report.FinishedAt = j.now().UTC()
		logger.InfoContext(ctx, "refresh skipped, another run holds the lock")
		return report, nil
	case err != nil:
		logger.WarnContext(ctx, "acquire refresh lock failed, running unlocked", "error", err)
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.WarnContext(ctx, "release refresh lock failed", "error", err)
			}
		}()
	}

	today := j.now().In(j.cfg.Location)
	dates := []time.Time{today, today.AddDate(0, 0, 1)}
	for _, date := range dates {
		report.Dates = append(report.Dates, j.refreshDate(ctx, logger, date))
	}

	if j.reports != nil {
		j.reports.Invalidate()
	}
	report.FinishedAt = j.now().UTC()

	logger.InfoContext(ctx, "refresh finished",
		"dates", len(report.Dates),
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}

func (j *RefreshJob) refreshDate(ctx context.Context, logger *logging.Logger, date time.Time) DateRefreshResult {
	result := DateRefreshResult{Date: date.Format(time.DateOnly)}
	logger = logger.With("date", result.Date)

	items, err := j.provider.FetchFixturesByDate(ctx, date)
	if err != nil {
		result.Error = err.Error()
		logger.ErrorContext(ctx, "fetch fixtures by date failed", "error", err)
		return result
	}

	items = fixture.DedupeFixtures(items)
	batch := make([]fixture.Enriched, 0, len(items))
	for _, item := range items {
		batch = append(batch, fixture.Plain(item))
	}
	result.Fixtures = len(batch)
	if len(batch) == 0 {
		return result
	}

	if err := j.sink.SaveBatch(ctx, batch); err != nil {
		result.Error = fmt.Sprintf("save fixtures: %v", err)
		logger.ErrorContext(ctx, "persist fixtures by date failed", "fixtures", len(batch), "error", err)
		return result
	}
	logger.InfoContext(ctx, "fixtures refreshed", "fixtures", len(batch))
	return result
}
