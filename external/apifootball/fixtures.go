package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

var (
	_ usecase.FixtureProvider   = (*Client)(nil)
	_ usecase.ReferenceProvider = (*Client)(nil)
)

func (c *Client) FetchFixturesByLeague(ctx context.Context, leagueID int64, season int) ([]fixture.Fixture, error) {
	if leagueID <= 0 || season <= 0 {
		return nil, fmt.Errorf("league id and season must be greater than zero")
	}
	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))

	items, err := getJSON[fixtureItem](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d season=%d: %w", leagueID, season, err)
	}
	return mapFixtures(items), nil
}

// FetchFixturesByDate lists fixtures on the calendar day of date, in date's
// location.
func (c *Client) FetchFixturesByDate(ctx context.Context, date time.Time) ([]fixture.Fixture, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}
	query := url.Values{}
	query.Set("date", date.Format(time.DateOnly))
	if tz := date.Location().String(); tz != "UTC" && tz != "Local" {
		query.Set("timezone", tz)
	}

	items, err := getJSON[fixtureItem](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", query.Get("date"), err)
	}
	return mapFixtures(items), nil
}

func (c *Client) FetchFixtureEvents(ctx context.Context, fixtureID int64) ([]fixture.Event, error) {
	items, err := getJSON[eventItem](ctx, c, "/fixtures/events", fixtureQuery(fixtureID))
	if err != nil {
		return nil, fmt.Errorf("fetch events fixture=%d: %w", fixtureID, err)
	}
	out := make([]fixture.Event, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) FetchFixtureStatistics(ctx context.Context, fixtureID int64) ([]fixture.TeamStatistics, error) {
	items, err := getJSON[statisticsItem](ctx, c, "/fixtures/statistics", fixtureQuery(fixtureID))
	if err != nil {
		return nil, fmt.Errorf("fetch statistics fixture=%d: %w", fixtureID, err)
	}
	out := make([]fixture.TeamStatistics, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) FetchFixturePlayers(ctx context.Context, fixtureID int64) ([]fixture.TeamPlayers, error) {
	items, err := getJSON[playersItem](ctx, c, "/fixtures/players", fixtureQuery(fixtureID))
	if err != nil {
		return nil, fmt.Errorf("fetch players fixture=%d: %w", fixtureID, err)
	}
	out := make([]fixture.TeamPlayers, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) FetchStandings(ctx context.Context, leagueID int64, season int) ([]league.Standing, error) {
	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))

	items, err := getJSON[standingsItem](ctx, c, "/standings", query)
	if err != nil {
		return nil, fmt.Errorf("fetch standings league=%d season=%d: %w", leagueID, season, err)
	}
	out := make([]league.Standing, 0, 20)
	for _, item := range items {
		out = append(out, item.toDomain()...)
	}
	return out, nil
}

func (c *Client) FetchOdds(ctx context.Context, fixtureID int64) ([]fixture.BookmakerOdds, error) {
	items, err := getJSON[oddsItem](ctx, c, "/odds", fixtureQuery(fixtureID))
	if err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}
	out := make([]fixture.BookmakerOdds, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain()...)
	}
	return out, nil
}

func fixtureQuery(fixtureID int64) url.Values {
	query := url.Values{}
	query.Set("fixture", strconv.FormatInt(fixtureID, 10))
	return query
}

// mapFixtures drops rows without an id; everything downstream keys on it.
func mapFixtures(items []fixtureItem) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, item.toDomain())
	}
	return out
}
