package usecase

import (
	"context"
	"fmt"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
)

// FixtureService reads stored fixtures and proxies fixture odds.
type FixtureService struct {
	leagues     []league.League
	fixtureRepo fixture.Repository
	reference   ReferenceProvider
	season      func() int
}

func NewFixtureService(leagues []league.League, fixtureRepo fixture.Repository, reference ReferenceProvider, season func() int) *FixtureService {
	return &FixtureService{
		leagues:     leagues,
		fixtureRepo: fixtureRepo,
		reference:   reference,
		season:      season,
	}
}

func (s *FixtureService) ListByLeague(ctx context.Context, leagueID int64, season int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByLeague")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if !knownLeague(s.leagues, leagueID) {
		return nil, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	if season <= 0 && s.season != nil {
		season = s.season()
	}

	items, err := s.fixtureRepo.ListByLeague(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by league: %w", err)
	}
	return items, nil
}

func (s *FixtureService) Odds(ctx context.Context, fixtureID int64) ([]fixture.BookmakerOdds, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Odds")
	defer span.End()

	if fixtureID <= 0 {
		return nil, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if s.reference == nil {
		return nil, fmt.Errorf("%w: odds provider is not configured", ErrDependencyUnavailable)
	}

	items, err := s.reference.FetchOdds(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch odds fixture=%d: %v", ErrDependencyUnavailable, fixtureID, err)
	}
	return items, nil
}

func knownLeague(leagues []league.League, leagueID int64) bool {
	for _, item := range leagues {
		if item.ID == leagueID {
			return true
		}
	}
	return false
}
