package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	fixturemock "github.com/LanceSports/LanceSports-sub000/internal/mocks/domain/fixture"
	usecasemock "github.com/LanceSports/LanceSports-sub000/internal/mocks/usecase"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/id"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

const testSeason = 2026

func testFixture(fixtureID, leagueID int64, status fixture.StatusCode) fixture.Fixture {
	return fixture.Fixture{
		ID:       fixtureID,
		LeagueID: leagueID,
		Season:   testSeason,
		Date:     time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC),
		Status:   fixture.Status{Short: status},
		Teams: fixture.Teams{
			Home: fixture.Participant{ID: fixtureID*10 + 1, Name: "Home"},
			Away: fixture.Participant{ID: fixtureID*10 + 2, Name: "Away"},
		},
	}
}

func expectDetail(provider *usecasemock.FixtureProvider, fixtureID int64) {
	provider.On("FetchFixtureEvents", mock.Anything, fixtureID).
		Return([]fixture.Event{{Elapsed: 12, Type: "Goal"}}, nil).Once()
	provider.On("FetchFixtureStatistics", mock.Anything, fixtureID).
		Return([]fixture.TeamStatistics{{TeamID: 1, Values: map[string]any{"Shots on Goal": 4}}}, nil).Once()
	provider.On("FetchFixturePlayers", mock.Anything, fixtureID).
		Return([]fixture.TeamPlayers{{TeamID: 1}}, nil).Once()
}

type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, d)
	return nil
}

func newTestIngestionService(
	provider FixtureProvider,
	sink fixture.Sink,
	background BackgroundPersister,
	cfg IngestionConfig,
) (*IngestionService, *sleepRecorder) {
	if cfg.Season == 0 {
		cfg.Season = testSeason
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 2
	}
	svc := NewIngestionService(provider, sink, background, cache.NewSnapshot[IngestionReport](), id.Static("run-1"), cfg, logging.NewNop())
	recorder := &sleepRecorder{}
	svc.sleep = recorder.sleep
	return svc, recorder
}

func TestIngestionService_Run_TwoLeaguesEndToEnd(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	leagues := []league.League{{ID: 39, Name: "Premier League"}, {ID: 140, Name: "La Liga"}}

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(1, 39, fixture.StatusNotStarted), testFixture(2, 39, fixture.StatusFullTime)}, nil).Once()
	provider.On("FetchFixturesByLeague", mock.Anything, int64(140), testSeason).
		Return([]fixture.Fixture{testFixture(3, 140, fixture.StatusFirstHalf), testFixture(4, 140, fixture.StatusTBD)}, nil).Once()
	expectDetail(provider, 2)
	expectDetail(provider, 3)

	var saved [][]fixture.Enriched
	sink.On("SaveBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).([]fixture.Enriched))
		}).
		Return(nil).Twice()

	svc, sleeps := newTestIngestionService(provider, sink, nil, IngestionConfig{
		Leagues:          leagues,
		InterLeagueDelay: 1500 * time.Millisecond,
		PersistMode:      PersistAwait,
	})

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if report.TotalLeagues != 2 || report.TotalFixtures != 4 || report.TotalDetailed != 2 {
		t.Fatalf("unexpected totals: leagues=%d fixtures=%d detailed=%d", report.TotalLeagues, report.TotalFixtures, report.TotalDetailed)
	}
	if report.Message != "Fetched fixtures for 2 leagues" {
		t.Fatalf("unexpected message: %q", report.Message)
	}
	if report.RunID != "run-1" {
		t.Fatalf("unexpected run id: %s", report.RunID)
	}
	if len(report.Fixtures) != 4 {
		t.Fatalf("unexpected fixture count: %d", len(report.Fixtures))
	}
	// Enriched fixtures come first, upcoming ones after.
	wantOrder := []int64{2, 1, 3, 4}
	for i, want := range wantOrder {
		if got := report.Fixtures[i].Fixture.ID; got != want {
			t.Fatalf("fixture[%d]: got=%d want=%d", i, got, want)
		}
	}
	if !report.Fixtures[0].Detailed || len(report.Fixtures[0].Detail.Events) != 1 {
		t.Fatalf("expected fixture 2 to carry detail: %+v", report.Fixtures[0])
	}
	if report.Fixtures[1].Detailed || report.Fixtures[1].Detail.Events == nil {
		t.Fatalf("expected plain upcoming fixture with empty detail: %+v", report.Fixtures[1])
	}
	for _, result := range report.Results {
		if result.State != StateDone || result.Error != "" {
			t.Fatalf("unexpected league result: %+v", result)
		}
	}
	if len(saved) != 2 || len(saved[0]) != 2 || len(saved[1]) != 2 {
		t.Fatalf("unexpected persisted batches: %+v", saved)
	}
	if len(sleeps.calls) != 1 || sleeps.calls[0] != 1500*time.Millisecond {
		t.Fatalf("expected exactly one inter-league delay, got %v", sleeps.calls)
	}

	cached, _, ok := svc.Reports().Get()
	if !ok || cached.RunID != "run-1" {
		t.Fatalf("expected report to be published to the snapshot")
	}
}

func TestIngestionService_Run_ContainsLeagueFailure(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	leagues := []league.League{{ID: 39, Name: "Premier League"}, {ID: 140, Name: "La Liga"}, {ID: 135, Name: "Serie A"}}

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(1, 39, fixture.StatusNotStarted)}, nil).Once()
	provider.On("FetchFixturesByLeague", mock.Anything, int64(140), testSeason).
		Return(nil, errors.New("upstream status 500")).Once()
	provider.On("FetchFixturesByLeague", mock.Anything, int64(135), testSeason).
		Return([]fixture.Fixture{testFixture(3, 135, fixture.StatusNotStarted)}, nil).Once()
	sink.On("SaveBatch", mock.Anything, mock.Anything).Return(nil).Twice()

	svc, _ := newTestIngestionService(provider, sink, nil, IngestionConfig{Leagues: leagues, PersistMode: PersistAwait})

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 league results, got %d", len(report.Results))
	}

	failed := report.Results[1]
	if failed.Error == "" || failed.ErrorSource != ErrorSourceUpstream || failed.State != StateFailed {
		t.Fatalf("expected league 2 to fail upstream: %+v", failed)
	}
	if failed.Fixtures == nil || len(failed.Fixtures) != 0 || failed.TotalFixtures != 0 {
		t.Fatalf("expected failed league to contribute zero fixtures: %+v", failed)
	}
	for _, idx := range []int{0, 2} {
		if report.Results[idx].Error != "" || len(report.Results[idx].Fixtures) != 1 {
			t.Fatalf("expected league %d to succeed: %+v", idx+1, report.Results[idx])
		}
	}
	if report.TotalFixtures != 2 {
		t.Fatalf("unexpected total fixtures: %d", report.TotalFixtures)
	}
}

func TestIngestionService_Run_CancelledBetweenLeaguesMarksSkipped(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	leagues := []league.League{{ID: 39, Name: "Premier League"}, {ID: 140, Name: "La Liga"}, {ID: 135, Name: "Serie A"}}

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(1, 39, fixture.StatusNotStarted)}, nil).Once()
	sink.On("SaveBatch", mock.Anything, mock.Anything).Return(nil).Once()

	svc, _ := newTestIngestionService(provider, sink, nil, IngestionConfig{
		Leagues:          leagues,
		InterLeagueDelay: time.Second,
		PersistMode:      PersistAwait,
	})
	svc.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if len(report.Results) != 3 || report.TotalLeagues != 3 {
		t.Fatalf("expected a result per selected league, got %d", len(report.Results))
	}
	if report.Results[0].State != StateDone || report.TotalFixtures != 1 {
		t.Fatalf("expected first league ingested: %+v", report.Results[0])
	}
	for i, result := range report.Results[1:] {
		if result.LeagueID != leagues[i+1].ID || result.State != StateFailed || result.ErrorSource != ErrorSourceCancelled {
			t.Fatalf("expected league %d marked skipped: %+v", i+2, result)
		}
		if !strings.Contains(result.Error, context.Canceled.Error()) || result.Fixtures == nil || len(result.Fixtures) != 0 {
			t.Fatalf("unexpected skipped league result: %+v", result)
		}
	}

	cached, _, ok := svc.Reports().Get()
	if !ok || len(cached.Results) != 3 {
		t.Fatalf("expected published report to list skipped leagues")
	}
}

func TestIngestionService_Run_SharesRetryBudgetAcrossLeagues(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	leagues := []league.League{{ID: 39, Name: "Premier League"}, {ID: 140, Name: "La Liga"}}
	var granted []bool
	takeRetry := func(args mock.Arguments) {
		budget := resilience.RetryBudgetFromContext(args.Get(0).(context.Context))
		granted = append(granted, budget != nil && budget.Take())
	}
	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Run(takeRetry).Return([]fixture.Fixture{}, nil).Once()
	provider.On("FetchFixturesByLeague", mock.Anything, int64(140), testSeason).
		Run(takeRetry).Return([]fixture.Fixture{}, nil).Once()

	svc, _ := newTestIngestionService(provider, nil, nil, IngestionConfig{
		Leagues:        leagues,
		RunRetryBudget: 1,
	})

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if len(granted) != 2 || !granted[0] || granted[1] {
		t.Fatalf("expected one run-wide retry token, got %v", granted)
	}
	if report.RetriesUsed != 1 {
		t.Fatalf("expected 1 retry used, got %d", report.RetriesUsed)
	}
}

func TestIngestionService_Run_AwaitPersistenceFailureKeepsFixtures(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(1, 39, fixture.StatusNotStarted)}, nil).Once()
	sink.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	svc, _ := newTestIngestionService(provider, sink, nil, IngestionConfig{
		Leagues:     []league.League{{ID: 39, Name: "Premier League"}},
		PersistMode: PersistAwait,
	})

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	result := report.Results[0]
	if result.ErrorSource != ErrorSourcePersistence || !strings.Contains(result.Error, "connection refused") {
		t.Fatalf("expected persistence error, got %+v", result)
	}
	if result.State != StateFailed {
		t.Fatalf("expected failed state, got %s", result.State)
	}
	if len(result.Fixtures) != 1 || report.TotalFixtures != 1 {
		t.Fatalf("expected fetched fixtures to be kept: %+v", result)
	}
}

func TestIngestionService_Run_BackgroundModeHidesPersistenceErrors(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)
	background := usecasemock.NewBackgroundPersister(t)

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(1, 39, fixture.StatusNotStarted), testFixture(2, 39, fixture.StatusNotStarted)}, nil).Once()
	background.On("Enqueue", mock.Anything, mock.MatchedBy(func(label string) bool {
		return strings.Contains(label, "run=run-1") && strings.Contains(label, "league=39")
	}), mock.MatchedBy(func(items []fixture.Enriched) bool {
		return len(items) == 2
	})).Return(errors.New("queue full")).Once()

	svc, _ := newTestIngestionService(provider, sink, background, IngestionConfig{
		Leagues:     []league.League{{ID: 39, Name: "Premier League"}},
		PersistMode: PersistAwait,
	})

	report, err := svc.Run(context.Background(), RunOptions{Mode: PersistBackground})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if report.Mode != PersistBackground {
		t.Fatalf("expected mode override, got %s", report.Mode)
	}
	if result := report.Results[0]; result.Error != "" || result.State != StateDone {
		t.Fatalf("background errors must not reach the report: %+v", result)
	}
}

func TestIngestionService_Run_DeduplicatesEnrichedFixtures(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	sink := fixturemock.NewSink(t)

	provider.On("FetchFixturesByLeague", mock.Anything, int64(39), testSeason).
		Return([]fixture.Fixture{testFixture(7, 39, fixture.StatusFullTime), testFixture(7, 39, fixture.StatusFullTime)}, nil).Once()
	provider.On("FetchFixtureEvents", mock.Anything, int64(7)).Return([]fixture.Event{}, nil)
	provider.On("FetchFixtureStatistics", mock.Anything, int64(7)).Return([]fixture.TeamStatistics{}, nil)
	provider.On("FetchFixturePlayers", mock.Anything, int64(7)).Return([]fixture.TeamPlayers{}, nil)
	sink.On("SaveBatch", mock.Anything, mock.MatchedBy(func(items []fixture.Enriched) bool {
		return len(items) == 1
	})).Return(nil).Once()

	svc, _ := newTestIngestionService(provider, sink, nil, IngestionConfig{
		Leagues:     []league.League{{ID: 39, Name: "Premier League"}},
		PersistMode: PersistAwait,
	})

	report, err := svc.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if report.TotalFixtures != 2 || report.TotalDetailed != 1 || len(report.Fixtures) != 1 {
		t.Fatalf("unexpected totals: fixtures=%d detailed=%d returned=%d", report.TotalFixtures, report.TotalDetailed, len(report.Fixtures))
	}
}

func TestIngestionService_Run_FiltersLeagues(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)
	provider.On("FetchFixturesByLeague", mock.Anything, int64(140), testSeason).
		Return([]fixture.Fixture{}, nil).Once()

	svc, sleeps := newTestIngestionService(provider, nil, nil, IngestionConfig{
		Leagues:          league.DefaultCatalogue(),
		InterLeagueDelay: time.Second,
	})

	report, err := svc.Run(context.Background(), RunOptions{Leagues: []string{"la liga"}})
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if report.TotalLeagues != 1 || report.Results[0].LeagueID != 140 {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
	if len(sleeps.calls) != 0 {
		t.Fatalf("no delay expected after the last league, got %v", sleeps.calls)
	}
}

func TestIngestionService_Run_RejectsBadInput(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewFixtureProvider(t)

	svc, _ := newTestIngestionService(provider, nil, nil, IngestionConfig{Leagues: league.DefaultCatalogue()})
	if _, err := svc.Run(context.Background(), RunOptions{Leagues: []string{"Eredivisie"}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown league, got %v", err)
	}
	if _, err := svc.Run(context.Background(), RunOptions{Mode: "later"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown mode, got %v", err)
	}
	if _, err := svc.Run(context.Background(), RunOptions{Mode: PersistAwait}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for await mode without store, got %v", err)
	}

	empty, _ := newTestIngestionService(provider, nil, nil, IngestionConfig{})
	_, err := empty.Run(context.Background(), RunOptions{})
	if !errors.Is(err, ErrMisconfigured) || !IsRunFatal(err) {
		t.Fatalf("expected run-fatal error without leagues, got %v", err)
	}
}

func TestIngestionService_Season(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(nil, nil, nil, nil, nil, IngestionConfig{}, nil)
	svc.now = func() time.Time { return time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC) }
	if got := svc.Season(); got != 2027 {
		t.Fatalf("expected season from current year, got %d", got)
	}

	fixed := NewIngestionService(nil, nil, nil, nil, nil, IngestionConfig{Season: 2024}, nil)
	if got := fixed.Season(); got != 2024 {
		t.Fatalf("expected configured season, got %d", got)
	}
}

func TestParsePersistMode(t *testing.T) {
	t.Parallel()

	cases := map[string]PersistMode{
		"":           PersistBackground,
		"background": PersistBackground,
		" AWAIT ":    PersistAwait,
	}
	for input, want := range cases {
		got, err := ParsePersistMode(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: got=%s err=%v want=%s", input, got, err, want)
		}
	}
	if _, err := ParsePersistMode("sync"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
