package usecase

import (
	"context"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
)

// DetailProvider fetches the three enrichment parts of one fixture.
type DetailProvider interface {
	FetchFixtureEvents(ctx context.Context, fixtureID int64) ([]fixture.Event, error)
	FetchFixtureStatistics(ctx context.Context, fixtureID int64) ([]fixture.TeamStatistics, error)
	FetchFixturePlayers(ctx context.Context, fixtureID int64) ([]fixture.TeamPlayers, error)
}

// FixtureProvider is the upstream sports-data API as the pipeline sees it.
type FixtureProvider interface {
	DetailProvider
	FetchFixturesByLeague(ctx context.Context, leagueID int64, season int) ([]fixture.Fixture, error)
	FetchFixturesByDate(ctx context.Context, date time.Time) ([]fixture.Fixture, error)
}

// ReferenceProvider serves provider lookups that are proxied without storage.
type ReferenceProvider interface {
	FetchStandings(ctx context.Context, leagueID int64, season int) ([]league.Standing, error)
	FetchOdds(ctx context.Context, fixtureID int64) ([]fixture.BookmakerOdds, error)
}

// BackgroundPersister accepts a batch for asynchronous storage. Enqueue only
// fails when the batch could not be queued.
type BackgroundPersister interface {
	Enqueue(ctx context.Context, label string, items []fixture.Enriched) error
}
