package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID            int64          `db:"id"`
	LeagueID      int64          `db:"league_id"`
	Season        int            `db:"season"`
	Round         string         `db:"round"`
	KickoffAt     time.Time      `db:"kickoff_at"`
	Timestamp     int64          `db:"kickoff_timestamp"`
	Timezone      string         `db:"timezone"`
	Referee       string         `db:"referee"`
	VenueID       sql.NullInt64  `db:"venue_id"`
	VenueName     string         `db:"venue_name"`
	VenueCity     string         `db:"venue_city"`
	StatusLong    string         `db:"status_long"`
	StatusShort   string         `db:"status_short"`
	StatusElapsed sql.NullInt32  `db:"status_elapsed"`
	HomeTeamID    int64          `db:"home_team_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamLogo  string         `db:"home_team_logo"`
	HomeWinner    sql.NullBool   `db:"home_winner"`
	AwayTeamID    int64          `db:"away_team_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamLogo  string         `db:"away_team_logo"`
	AwayWinner    sql.NullBool   `db:"away_winner"`
	GoalsHome     sql.NullInt32  `db:"goals_home"`
	GoalsAway     sql.NullInt32  `db:"goals_away"`
	Score         []byte         `db:"score"`
	Detailed      bool           `db:"detailed"`
}

type fixtureEventInsertModel struct {
	FixtureID  int64         `db:"fixture_id"`
	Seq        int           `db:"seq"`
	Elapsed    int           `db:"elapsed"`
	Extra      sql.NullInt32 `db:"extra"`
	TeamID     int64         `db:"team_id"`
	TeamName   string        `db:"team_name"`
	PlayerID   int64         `db:"player_id"`
	PlayerName string        `db:"player_name"`
	AssistID   int64         `db:"assist_id"`
	AssistName string        `db:"assist_name"`
	Type       string        `db:"type"`
	Detail     string        `db:"detail"`
	Comments   string        `db:"comments"`
}

type teamStatisticsInsertModel struct {
	FixtureID int64  `db:"fixture_id"`
	TeamID    int64  `db:"team_id"`
	TeamName  string `db:"team_name"`
	Stats     []byte `db:"stats"`
}

type playerStatisticsInsertModel struct {
	FixtureID  int64  `db:"fixture_id"`
	PlayerID   int64  `db:"player_id"`
	TeamID     int64  `db:"team_id"`
	PlayerName string `db:"player_name"`
	Stats      []byte `db:"stats"`
}

// scoreDocument is the JSONB layout of fixtures.score.
type scoreDocument struct {
	HalfTime  goalsDocument `json:"halftime"`
	FullTime  goalsDocument `json:"fulltime"`
	ExtraTime goalsDocument `json:"extratime"`
	Penalty   goalsDocument `json:"penalty"`
}

type goalsDocument struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
