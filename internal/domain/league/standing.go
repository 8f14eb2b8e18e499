package league

// Standing represents a league table row for one team.
type Standing struct {
	LeagueID       int64
	Season         int
	Group          string
	Rank           int
	TeamID         int64
	TeamName       string
	TeamLogo       string
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Form           string
	Description    string
}
