package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LanceSports/LanceSports-sub000/external/apifootball"
	"github.com/LanceSports/LanceSports-sub000/internal/config"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/infrastructure/jobqueue"
	"github.com/LanceSports/LanceSports-sub000/internal/infrastructure/repository/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/infrastructure/repository/memory"
	"github.com/LanceSports/LanceSports-sub000/internal/infrastructure/repository/postgres"
	snapshot "github.com/LanceSports/LanceSports-sub000/internal/platform/cache"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/fanout"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/id"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/runlock"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// Pipeline holds the ingestion services and the resources backing them. It
// is shared by the HTTP server and the ingest CLI.
type Pipeline struct {
	Provider  *apifootball.Client
	Reference usecase.ReferenceProvider
	Store     fixture.Repository
	Writer    *jobqueue.BackgroundWriter
	Ingestion *usecase.IngestionService
	Refresh   *usecase.RefreshJob
	Fixtures  *usecase.FixtureService
	Standings *usecase.LeagueStandingService

	closers []func(context.Context) error
}

// backgroundWriteRetryWait spaces retries of a failed background store write.
const backgroundWriteRetryWait = 2 * time.Second

func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Pipeline{}

	retry := resilience.RetryPolicy{
		MaxAttempts: cfg.ProviderRetryAttempts,
		DefaultWait: cfg.ProviderRetryWait,
	}
	p.Provider = apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:      cfg.ProviderBaseURL,
		APIKey:       cfg.ProviderAPIKey,
		Timeout:      cfg.ProviderTimeout,
		RateLimitRPM: cfg.ProviderRateLimitRPM,
		Retry:        retry,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Name:             "api-football",
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	var (
		referenceStore cache.Store = cache.NewMemoryStore()
		locker         runlock.Locker
	)
	if cfg.RedisURL != "" {
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, func(context.Context) error { return client.Close() })
		referenceStore = cache.NewRedisStore(client)
		locker = runlock.NewRedisLocker(client)
	} else {
		locker = runlock.NewLocalLocker()
	}
	p.Reference = cache.NewReferenceProvider(p.Provider, referenceStore, cache.ReferenceConfig{
		StandingsTTL: cfg.StandingsCacheTTL,
		OddsTTL:      cfg.OddsCacheTTL,
	}, logger)

	if cfg.DBEnabled {
		db, err := openDatabase(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			_ = p.Close(ctx)
			return nil, err
		}
		p.closers = append(p.closers, func(context.Context) error { return db.Close() })
		p.Store = postgres.NewFixtureRepository(db)
	} else {
		logger.Warn("database disabled, fixtures are kept in memory", "reason", "DB_ENABLED=false")
		p.Store = memory.NewFixtureRepository()
	}

	writer, err := jobqueue.NewBackgroundWriter(p.Store, jobqueue.BackgroundWriterConfig{
		Workers:   cfg.IngestQueueWorkers,
		QueueSize: cfg.IngestQueueSize,
		Retry:     resilience.RetryPolicy{MaxAttempts: 3, DefaultWait: backgroundWriteRetryWait},
	}, logger)
	if err != nil {
		_ = p.Close(ctx)
		return nil, fmt.Errorf("build background writer: %w", err)
	}
	p.Writer = writer
	// Closed first so queued batches land before the store goes away.
	p.closers = append([]func(context.Context) error{writer.Close}, p.closers...)

	concurrency := cfg.IngestConcurrency
	if concurrency <= 0 {
		concurrency = fanout.ConcurrencyFromRPM(cfg.ProviderRateLimitRPM, cfg.IngestConcurrencyFraction)
	}
	reports := snapshot.NewSnapshot[usecase.IngestionReport]()
	ids := id.NewUUIDGenerator()

	p.Ingestion = usecase.NewIngestionService(
		p.Provider,
		p.Store,
		p.Writer,
		reports,
		ids,
		usecase.IngestionConfig{
			Leagues:          cfg.Leagues,
			Season:           cfg.Season,
			Concurrency:      concurrency,
			InterLeagueDelay: cfg.IngestInterLeagueDelay,
			LeagueTimeout:    cfg.IngestLeagueTimeout,
			RunRetryBudget:   cfg.IngestRunRetryBudget,
			PersistMode:      usecase.PersistMode(cfg.IngestPersistMode),
		},
		logger,
	)
	p.Refresh = usecase.NewRefreshJob(p.Provider, p.Store, reports, locker, ids, usecase.RefreshConfig{
		Location: cfg.RefreshTimezone,
		LockTTL:  cfg.RefreshLockTTL,
	}, logger)
	p.Fixtures = usecase.NewFixtureService(cfg.Leagues, p.Store, p.Reference, p.Ingestion.Season)
	p.Standings = usecase.NewLeagueStandingService(cfg.Leagues, p.Reference, p.Ingestion.Season)

	logger.Info("ingestion pipeline ready",
		"leagues", len(cfg.Leagues),
		"concurrency", concurrency,
		"persist_mode", cfg.IngestPersistMode,
		"database", cfg.DBEnabled,
		"redis", cfg.RedisURL != "",
	)
	return p, nil
}

// Close drains the background writer, then releases the store and cache
// connections.
func (p *Pipeline) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range p.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
