package usecase

import (
	"context"
	"fmt"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// DetailFetcher loads events, statistics and players of one fixture in
// parallel. A part that fails comes back empty; FetchDetail never errors.
type DetailFetcher struct {
	provider DetailProvider
	logger   *logging.Logger
}

func NewDetailFetcher(provider DetailProvider, logger *logging.Logger) *DetailFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &DetailFetcher{
		provider: provider,
		logger:   logger.Named("detail_fetcher"),
	}
}

func (f *DetailFetcher) FetchDetail(ctx context.Context, fixtureID int64) fixture.Detail {
	ctx, span := startUsecaseSpan(ctx, "usecase.DetailFetcher.FetchDetail")
	defer span.End()

	var (
		detail fixture.Detail
		wg     conc.WaitGroup
	)
	wg.Go(func() {
		events, err := f.provider.FetchFixtureEvents(ctx, fixtureID)
		if err != nil {
			f.logPartFailure(ctx, fixtureID, "events", err)
			return
		}
		detail.Events = events
	})
	wg.Go(func() {
		stats, err := f.provider.FetchFixtureStatistics(ctx, fixtureID)
		if err != nil {
			f.logPartFailure(ctx, fixtureID, "statistics", err)
			return
		}
		detail.Statistics = stats
	})
	wg.Go(func() {
		players, err := f.provider.FetchFixturePlayers(ctx, fixtureID)
		if err != nil {
			f.logPartFailure(ctx, fixtureID, "players", err)
			return
		}
		detail.Players = players
	})

	if recovered := wg.WaitAndRecover(); recovered != nil {
		f.logPartFailure(ctx, fixtureID, "panic", fmt.Errorf("%v", recovered.Value))
	}
	return detail.Normalize()
}

func (f *DetailFetcher) logPartFailure(ctx context.Context, fixtureID int64, part string, err error) {
	f.logger.WarnContext(ctx, "fixture detail part unavailable",
		"fixture_id", fixtureID,
		"part", part,
		"error", err,
	)
}
