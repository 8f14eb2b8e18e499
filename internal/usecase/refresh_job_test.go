package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	fixturemock "github.com/LanceSports/LanceSports-sub000/internal/mocks/domain/fixture"
	usecasemock "github.com/LanceSports/LanceSports-sub000/internal/mocks/usecase"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/id"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/runlock"
	"github.com/stretchr/testify/mock"
)

func onDate(day string) any {
	return mock.MatchedBy(func(d time.Time) bool {
		return d.Format(time.DateOnly) == day
	})
}

func newTestRefreshJob(provider FixtureProvider, sink fixture.Sink, reports *cache.Snapshot[IngestionReport], locker runlock.Locker) *RefreshJob {
	job := NewRefreshJob(provider, sink, reports, locker, id.Static("refresh-1"), RefreshConfig{Location: time.UTC}, logging.NewNop())
	job.now = func() time.Time { return time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC) }
	return job
}

func TestRefreshJob_Run_IsolatesDates(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	reports := cache.NewSnapshot[IngestionReport]()
	reports.Publish(IngestionReport{RunID: "previous"})

	provider.On("FetchFixturesByDate", mock.Anything, onDate("2026-10-16")).
		Return(nil, errors.New("upstream status 502")).Once()
	provider.On("FetchFixturesByDate", mock.Anything, onDate("2026-10-17")).
		Return([]fixture.Fixture{
			testFixture(11, 39, fixture.StatusNotStarted),
			testFixture(11, 39, fixture.StatusNotStarted),
			testFixture(12, 140, fixture.StatusNotStarted),
		}, nil).Once()
	sink.On("SaveBatch", mock.Anything, mock.MatchedBy(func(items []fixture.Enriched) bool {
		return len(items) == 2 && !items[0].Detailed
	})).Return(nil).Once()

	report, err := newTestRefreshJob(provider, sink, reports, runlock.NewLocalLocker()).Run(context.Background())
	if err != nil {
		t.Fatalf("run refresh: %v", err)
	}
	if report.Skipped || len(report.Dates) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Dates[0].Date != "2026-10-16" || report.Dates[0].Error == "" {
		t.Fatalf("expected today to record its failure: %+v", report.Dates[0])
	}
	if report.Dates[1].Date != "2026-10-17" || report.Dates[1].Error != "" || report.Dates[1].Fixtures != 2 {
		t.Fatalf("expected tomorrow to succeed: %+v", report.Dates[1])
	}
	if _, _, ok := reports.Get(); ok {
		t.Fatalf("expected report cache to be invalidated")
	}
}

func TestRefreshJob_Run_RecordsPersistenceFailure(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)

	provider.On("FetchFixturesByDate", mock.Anything, onDate("2026-10-16")).
		Return([]fixture.Fixture{testFixture(21, 39, fixture.StatusNotStarted)}, nil).Once()
	provider.On("FetchFixturesByDate", mock.Anything, onDate("2026-10-17")).
		Return([]fixture.Fixture{}, nil).Once()
	sink.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("deadlock detected")).Once()

	report, err := newTestRefreshJob(provider, sink, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run refresh: %v", err)
	}
	if report.Dates[0].Error == "" || report.Dates[1].Error != "" {
		t.Fatalf("unexpected date results: %+v", report.Dates)
	}
}

func TestRefreshJob_Run_SkipsWhenLocked(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	locker := runlock.NewLocalLocker()

	release, err := locker.Acquire(context.Background(), refreshLockName, time.Minute)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer func() { _ = release(context.Background()) }()

	report, err := newTestRefreshJob(provider, sink, nil, locker).Run(context.Background())
	if err != nil {
		t.Fatalf("run refresh: %v", err)
	}
	if !report.Skipped || len(report.Dates) != 0 {
		t.Fatalf("expected skipped run, got %+v", report)
	}
}

func TestRefreshJob_Run_RequiresDependencies(t *testing.T) {
	t.Parallel()

	job := NewRefreshJob(nil, nil, nil, nil, nil, RefreshConfig{}, nil)
	if _, err := job.Run(context.Background()); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}
