package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/fanout"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/id"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
)

type PersistMode string

const (
	PersistAwait      PersistMode = "await"
	PersistBackground PersistMode = "background"
)

func ParsePersistMode(value string) (PersistMode, error) {
	switch PersistMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", PersistBackground:
		return PersistBackground, nil
	case PersistAwait:
		return PersistAwait, nil
	default:
		return "", fmt.Errorf("%w: unknown persist mode %q", ErrInvalidInput, value)
	}
}

type LeagueState string

const (
	StateFetching      LeagueState = "fetching"
	StateSplitting     LeagueState = "splitting"
	StateEnriching     LeagueState = "enriching"
	StateDeduplicating LeagueState = "deduplicating"
	StatePersisting    LeagueState = "persisting"
	StateDone          LeagueState = "done"
	StateFailed        LeagueState = "failed"
)

const (
	ErrorSourceUpstream    = "upstream"
	ErrorSourcePersistence = "persistence"
	ErrorSourceCancelled   = "cancelled"
)

type IngestionConfig struct {
	Leagues          []league.League
	Season           int
	Concurrency      int
	InterLeagueDelay time.Duration
	LeagueTimeout    time.Duration
	RunRetryBudget   int
	PersistMode      PersistMode
}

type RunOptions struct {
	Leagues []string
	Mode    PersistMode
}

type LeagueResult struct {
	League        string
	LeagueID      int64
	Season        int
	State         LeagueState
	TotalFixtures int
	Detailed      int
	Fixtures      []fixture.Enriched
	Error         string
	ErrorSource   string
	Duration      time.Duration
}

type IngestionReport struct {
	RunID         string
	Message       string
	Mode          PersistMode
	Season        int
	TotalLeagues  int
	TotalFixtures int
	TotalDetailed int
	RetriesUsed   int
	Results       []LeagueResult
	Fixtures      []fixture.Enriched
	StartedAt     time.Time
	FinishedAt    time.Time
}

type IngestionService struct {
	provider   FixtureProvider
	details    *DetailFetcher
	sink       fixture.Sink
	background BackgroundPersister
	reports    *cache.Snapshot[IngestionReport]
	ids        id.Generator
	cfg        IngestionConfig
	logger     *logging.Logger
	flight     resilience.SingleFlight[IngestionReport]
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewIngestionService(
	provider FixtureProvider,
	sink fixture.Sink,
	background BackgroundPersister,
	reports *cache.Snapshot[IngestionReport],
	ids id.Generator,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PersistMode == "" {
		cfg.PersistMode = PersistBackground
	}

	return &IngestionService{
		provider:   provider,
		details:    NewDetailFetcher(provider, logger),
		sink:       sink,
		background: background,
		reports:    reports,
		ids:        ids,
		cfg:        cfg,
		logger:     logger.Named("ingestion"),
		now:        time.Now,
		sleep:      resilience.SleepContext,
	}
}

// Reports exposes the snapshot holding the last completed run.
func (s *IngestionService) Reports() *cache.Snapshot[IngestionReport] {
	return s.reports
}

// Run ingests every selected league in configuration order. Per-league
// failures are recorded in the report; only configuration problems return an
// error. Concurrent calls with the same options share a single run.
func (s *IngestionService) Run(ctx context.Context, opts RunOptions) (IngestionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run")
	defer span.End()

	if s.provider == nil {
		return IngestionReport{}, fmt.Errorf("%w: fixture provider is not configured", ErrMisconfigured)
	}
	if len(s.cfg.Leagues) == 0 {
		return IngestionReport{}, fmt.Errorf("%w: no leagues configured", ErrMisconfigured)
	}

	leagues, err := league.Filter(s.cfg.Leagues, opts.Leagues)
	if err != nil {
		return IngestionReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	mode := opts.Mode
	if mode == "" {
		mode = s.cfg.PersistMode
	}
	if mode != PersistAwait && mode != PersistBackground {
		return IngestionReport{}, fmt.Errorf("%w: unknown persist mode %q", ErrInvalidInput, mode)
	}
	if mode == PersistAwait && s.sink == nil {
		return IngestionReport{}, fmt.Errorf("%w: await mode requires a fixture store", ErrMisconfigured)
	}

	report, err, shared := s.flight.Do(runKey(mode, leagues), func() (IngestionReport, error) {
		return s.run(ctx, leagues, mode)
	})
	if shared {
		s.logger.InfoContext(ctx, "joined in-flight ingestion run", "run_id", report.RunID)
	}
	return report, err
}

func (s *IngestionService) run(ctx context.Context, leagues []league.League, mode PersistMode) (IngestionReport, error) {
	runID, err := s.ids.NewID()
	if err != nil {
		return IngestionReport{}, fmt.Errorf("generate run id: %w", err)
	}

	budget := resilience.NewRetryBudget(s.cfg.RunRetryBudget)
	ctx = resilience.WithRetryBudget(ctx, budget)

	season := s.Season()
	report := IngestionReport{
		RunID:     runID,
		Mode:      mode,
		Season:    season,
		Results:   make([]LeagueResult, 0, len(leagues)),
		Fixtures:  []fixture.Enriched{},
		StartedAt: s.now().UTC(),
	}
	logger := s.logger.With("run_id", runID, "mode", string(mode), "season", season)
	logger.InfoContext(ctx, "ingestion run started", "leagues", len(leagues))

	for i, item := range leagues {
		if i > 0 && s.cfg.InterLeagueDelay > 0 {
			if err := s.sleep(ctx, s.cfg.InterLeagueDelay); err != nil {
				logger.WarnContext(ctx, "ingestion run interrupted between leagues", "error", err, "skipped", len(leagues)-i)
				for _, skipped := range leagues[i:] {
					report.Results = append(report.Results, skippedLeague(skipped, season, err))
				}
				break
			}
		}

		result := s.processLeague(ctx, logger, runID, item, season, mode)
		report.Results = append(report.Results, result)
		report.Fixtures = append(report.Fixtures, result.Fixtures...)
		report.TotalFixtures += result.TotalFixtures
		report.TotalDetailed += result.Detailed
	}

	report.TotalLeagues = len(report.Results)
	report.Message = fmt.Sprintf("Fetched fixtures for %d leagues", report.TotalLeagues)
	report.RetriesUsed = budget.Used()
	report.FinishedAt = s.now().UTC()

	if s.reports != nil {
		s.reports.Publish(report)
	}

	logger.InfoContext(ctx, "ingestion run finished",
		"leagues", report.TotalLeagues,
		"fixtures", report.TotalFixtures,
		"detailed", report.TotalDetailed,
		"retries_used", report.RetriesUsed,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}

func (s *IngestionService) processLeague(
	ctx context.Context,
	logger *logging.Logger,
	runID string,
	item league.League,
	season int,
	mode PersistMode,
) (result LeagueResult) {
	started := s.now()
	logger = logger.With("league", item.Name, "league_id", item.ID)
	result = LeagueResult{
		League:   item.Name,
		LeagueID: item.ID,
		Season:   season,
		Fixtures: []fixture.Enriched{},
	}
	transition := func(state LeagueState) {
		result.State = state
		logger.DebugContext(ctx, "league state", "state", string(state))
	}
	defer func() {
		result.Duration = s.now().Sub(started)
	}()

	leagueCtx := ctx
	if s.cfg.LeagueTimeout > 0 {
		var cancel context.CancelFunc
		leagueCtx, cancel = context.WithTimeout(ctx, s.cfg.LeagueTimeout)
		defer cancel()
	}

	transition(StateFetching)
	items, err := s.provider.FetchFixturesByLeague(leagueCtx, item.ID, season)
	if err != nil {
		transition(StateFailed)
		result.Error = err.Error()
		result.ErrorSource = ErrorSourceUpstream
		logger.ErrorContext(ctx, "fetch league fixtures failed", "error", err)
		return result
	}
	result.TotalFixtures = len(items)

	transition(StateSplitting)
	upcoming, pastOrLive := fixture.Split(items)

	transition(StateEnriching)
	enriched, err := fanout.Run(leagueCtx, s.cfg.Concurrency, pastOrLive, func(ctx context.Context, f fixture.Fixture) fixture.Enriched {
		return fixture.Enriched{
			Fixture:  f,
			Detail:   s.details.FetchDetail(ctx, f.ID),
			Detailed: true,
		}
	})
	if err != nil {
		logger.WarnContext(ctx, "fixture enrichment stopped early", "error", err)
	}
	for i := range enriched {
		// Slots that were never dispatched carry the zero value.
		if enriched[i].Fixture.ID == 0 {
			enriched[i] = fixture.Plain(pastOrLive[i])
		}
	}

	transition(StateDeduplicating)
	deduped := fixture.Dedupe(enriched)
	batch := make([]fixture.Enriched, 0, len(deduped)+len(upcoming))
	batch = append(batch, deduped...)
	for _, f := range upcoming {
		batch = append(batch, fixture.Plain(f))
	}
	result.Fixtures = batch
	for _, e := range batch {
		if e.Detailed {
			result.Detailed++
		}
	}

	transition(StatePersisting)
	if err := s.persist(leagueCtx, logger, runID, item, batch, mode); err != nil {
		transition(StateFailed)
		result.Error = err.Error()
		result.ErrorSource = ErrorSourcePersistence
		logger.ErrorContext(ctx, "persist league fixtures failed", "error", err)
		return result
	}

	transition(StateDone)
	logger.InfoContext(ctx, "league ingested",
		"fixtures", result.TotalFixtures,
		"detailed", result.Detailed,
		"upcoming", len(upcoming),
	)
	return result
}

// skippedLeague records a league the run never reached.
func skippedLeague(item league.League, season int, cause error) LeagueResult {
	return LeagueResult{
		League:      item.Name,
		LeagueID:    item.ID,
		Season:      season,
		State:       StateFailed,
		Fixtures:    []fixture.Enriched{},
		Error:       fmt.Sprintf("league skipped: %v", cause),
		ErrorSource: ErrorSourceCancelled,
	}
}

func (s *IngestionService) persist(
	ctx context.Context,
	logger *logging.Logger,
	runID string,
	item league.League,
	batch []fixture.Enriched,
	mode PersistMode,
) error {
	if len(batch) == 0 {
		return nil
	}

	if mode == PersistAwait {
		if err := s.sink.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("save fixtures league=%d: %w", item.ID, err)
		}
		return nil
	}

	if s.background == nil {
		logger.WarnContext(ctx, "background persistence disabled, batch dropped", "fixtures", len(batch))
		return nil
	}
	label := fmt.Sprintf("run=%s league=%d", runID, item.ID)
	if err := s.background.Enqueue(context.WithoutCancel(ctx), label, batch); err != nil {
		logger.ErrorContext(ctx, "enqueue background persistence failed", "fixtures", len(batch), "error", err)
	}
	return nil
}

// Season is the configured season, or the current year when unset.
func (s *IngestionService) Season() int {
	if s.cfg.Season > 0 {
		return s.cfg.Season
	}
	return s.now().Year()
}

func runKey(mode PersistMode, leagues []league.League) string {
	ids := make([]string, 0, len(leagues))
	for _, item := range leagues {
		ids = append(ids, fmt.Sprintf("%d", item.ID))
	}
	sort.Strings(ids)
	return string(mode) + ":" + strings.Join(ids, ",")
}

// IsRunFatal reports errors that prevent a run from starting at all.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrMisconfigured)
}
