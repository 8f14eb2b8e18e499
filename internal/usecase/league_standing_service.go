package usecase

import (
	"context"
	"fmt"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
)

type LeagueStandingService struct {
	leagues   []league.League
	reference ReferenceProvider
	season    func() int
}

func NewLeagueStandingService(leagues []league.League, reference ReferenceProvider, season func() int) *LeagueStandingService {
	return &LeagueStandingService{
		leagues:   leagues,
		reference: reference,
		season:    season,
	}
}

func (s *LeagueStandingService) ListByLeague(ctx context.Context, leagueID int64, season int) ([]league.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueStandingService.ListByLeague")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if !knownLeague(s.leagues, leagueID) {
		return nil, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	if s.reference == nil {
		return nil, fmt.Errorf("%w: standings provider is not configured", ErrDependencyUnavailable)
	}
	if season <= 0 && s.season != nil {
		season = s.season()
	}

	items, err := s.reference.FetchStandings(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch standings league=%d: %v", ErrDependencyUnavailable, leagueID, err)
	}
	return items, nil
}
