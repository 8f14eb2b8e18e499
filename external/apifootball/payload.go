package apifootball

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
)

type envelope[T any] struct {
	Get      string `json:"get"`
	Errors   any    `json:"errors"`
	Results  int    `json:"results"`
	Response []T    `json:"response"`
}

// errorMessage flattens the envelope's errors field, which the provider sends
// either as an empty array or as an object keyed by parameter.
func (e envelope[T]) errorMessage() string {
	return flattenErrors(e.Errors)
}

func flattenErrors(raw any) string {
	switch v := raw.(type) {
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, v[key]))
		}
		return strings.Join(parts, "; ")
	case []any:
		if len(v) == 0 {
			return ""
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

type idName struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
	Logo string  `json:"logo"`
}

func (v idName) id() int64 {
	if v.ID == nil {
		return 0
	}
	return *v.ID
}

func (v idName) name() string {
	if v.Name == nil {
		return ""
	}
	return strings.TrimSpace(*v.Name)
}

type goalsPayload struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (g goalsPayload) toDomain() fixture.Goals {
	return fixture.Goals{Home: g.Home, Away: g.Away}
}

type fixtureItem struct {
	Fixture struct {
		ID        int64   `json:"id"`
		Referee   *string `json:"referee"`
		Timezone  string  `json:"timezone"`
		Date      string  `json:"date"`
		Timestamp int64   `json:"timestamp"`
		Venue     struct {
			ID   *int64  `json:"id"`
			Name *string `json:"name"`
			City *string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamPayload `json:"home"`
		Away teamPayload `json:"away"`
	} `json:"teams"`
	Goals goalsPayload `json:"goals"`
	Score struct {
		HalfTime  goalsPayload `json:"halftime"`
		FullTime  goalsPayload `json:"fulltime"`
		ExtraTime goalsPayload `json:"extratime"`
		Penalty   goalsPayload `json:"penalty"`
	} `json:"score"`
}

type teamPayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

func (t teamPayload) toDomain() fixture.Participant {
	return fixture.Participant{
		ID:     t.ID,
		Name:   strings.TrimSpace(t.Name),
		Logo:   t.Logo,
		Winner: t.Winner,
	}
}

func (f fixtureItem) toDomain() fixture.Fixture {
	out := fixture.Fixture{
		ID:        f.Fixture.ID,
		LeagueID:  f.League.ID,
		Season:    f.League.Season,
		Round:     strings.TrimSpace(f.League.Round),
		Date:      parseProviderTime(f.Fixture.Date, f.Fixture.Timestamp),
		Timestamp: f.Fixture.Timestamp,
		Timezone:  f.Fixture.Timezone,
		Referee:   derefString(f.Fixture.Referee),
		Venue: fixture.Venue{
			ID:   derefInt64(f.Fixture.Venue.ID),
			Name: derefString(f.Fixture.Venue.Name),
			City: derefString(f.Fixture.Venue.City),
		},
		Status: fixture.Status{
			Long:    f.Fixture.Status.Long,
			Short:   fixture.NormalizeStatus(f.Fixture.Status.Short),
			Elapsed: f.Fixture.Status.Elapsed,
		},
		Teams: fixture.Teams{
			Home: f.Teams.Home.toDomain(),
			Away: f.Teams.Away.toDomain(),
		},
		Goals: f.Goals.toDomain(),
		Score: fixture.Score{
			HalfTime:  f.Score.HalfTime.toDomain(),
			FullTime:  f.Score.FullTime.toDomain(),
			ExtraTime: f.Score.ExtraTime.toDomain(),
			Penalty:   f.Score.Penalty.toDomain(),
		},
	}
	return out
}

type eventItem struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team     idName  `json:"team"`
	Player   idName  `json:"player"`
	Assist   idName  `json:"assist"`
	Type     string  `json:"type"`
	Detail   string  `json:"detail"`
	Comments *string `json:"comments"`
}

func (e eventItem) toDomain() fixture.Event {
	return fixture.Event{
		Elapsed:    e.Time.Elapsed,
		Extra:      e.Time.Extra,
		TeamID:     e.Team.id(),
		TeamName:   e.Team.name(),
		PlayerID:   e.Player.id(),
		PlayerName: e.Player.name(),
		AssistID:   e.Assist.id(),
		AssistName: e.Assist.name(),
		Type:       e.Type,
		Detail:     e.Detail,
		Comments:   derefString(e.Comments),
	}
}

type statisticsItem struct {
	Team       idName `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

func (s statisticsItem) toDomain() fixture.TeamStatistics {
	values := make(map[string]any, len(s.Statistics))
	for _, stat := range s.Statistics {
		key := strings.TrimSpace(stat.Type)
		if key == "" {
			continue
		}
		values[key] = stat.Value
	}
	return fixture.TeamStatistics{
		TeamID:   s.Team.id(),
		TeamName: s.Team.name(),
		Values:   values,
	}
}

type playersItem struct {
	Team    idName `json:"team"`
	Players []struct {
		Player     idName           `json:"player"`
		Statistics []map[string]any `json:"statistics"`
	} `json:"players"`
}

func (p playersItem) toDomain() fixture.TeamPlayers {
	players := make([]fixture.PlayerStatistics, 0, len(p.Players))
	for _, item := range p.Players {
		stats := map[string]any{}
		if len(item.Statistics) > 0 && item.Statistics[0] != nil {
			stats = item.Statistics[0]
		}
		players = append(players, fixture.PlayerStatistics{
			PlayerID: item.Player.id(),
			Name:     item.Player.name(),
			Stats:    stats,
		})
	}
	return fixture.TeamPlayers{
		TeamID:   p.Team.id(),
		TeamName: p.Team.name(),
		Players:  players,
	}
}

type standingsItem struct {
	League struct {
		ID        int64               `json:"id"`
		Season    int                 `json:"season"`
		Standings [][]standingPayload `json:"standings"`
	} `json:"league"`
}

type standingPayload struct {
	Rank        int    `json:"rank"`
	Team        idName `json:"team"`
	Points      int    `json:"points"`
	GoalsDiff   int    `json:"goalsDiff"`
	Group       string `json:"group"`
	Form        string `json:"form"`
	Description string `json:"description"`
	All         struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

func (s standingsItem) toDomain() []league.Standing {
	out := make([]league.Standing, 0, 20)
	for _, group := range s.League.Standings {
		for _, row := range group {
			out = append(out, league.Standing{
				LeagueID:       s.League.ID,
				Season:         s.League.Season,
				Group:          row.Group,
				Rank:           row.Rank,
				TeamID:         row.Team.id(),
				TeamName:       row.Team.name(),
				TeamLogo:       row.Team.Logo,
				Played:         row.All.Played,
				Won:            row.All.Win,
				Draw:           row.All.Draw,
				Lost:           row.All.Lose,
				GoalsFor:       row.All.Goals.For,
				GoalsAgainst:   row.All.Goals.Against,
				GoalDifference: row.GoalsDiff,
				Points:         row.Points,
				Form:           row.Form,
				Description:    row.Description,
			})
		}
	}
	return out
}

type oddsItem struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Bookmakers []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Bets []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value any    `json:"value"`
				Odd   string `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

func (o oddsItem) toDomain() []fixture.BookmakerOdds {
	out := make([]fixture.BookmakerOdds, 0, len(o.Bookmakers))
	for _, bookmaker := range o.Bookmakers {
		bets := make([]fixture.Bet, 0, len(bookmaker.Bets))
		for _, bet := range bookmaker.Bets {
			values := make([]fixture.OddValue, 0, len(bet.Values))
			for _, value := range bet.Values {
				values = append(values, fixture.OddValue{Value: fmt.Sprint(value.Value), Odd: value.Odd})
			}
			bets = append(bets, fixture.Bet{ID: bet.ID, Name: bet.Name, Values: values})
		}
		out = append(out, fixture.BookmakerOdds{
			FixtureID:     o.Fixture.ID,
			BookmakerID:   bookmaker.ID,
			BookmakerName: bookmaker.Name,
			Bets:          bets,
		})
	}
	return out
}

func parseProviderTime(raw string, timestamp int64) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC()
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
