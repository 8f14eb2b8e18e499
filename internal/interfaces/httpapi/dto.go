package httpapi

import (
	"strconv"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/jobscheduler"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

// Provider ids are 64-bit; they go out as strings so JavaScript clients do
// not lose precision.

type ingestionReportDTO struct {
	RunID         string               `json:"runId"`
	Message       string               `json:"message"`
	Mode          string               `json:"mode"`
	Season        int                  `json:"season"`
	TotalLeagues  int                  `json:"totalLeagues"`
	TotalFixtures int                  `json:"totalFixtures"`
	TotalDetailed int                  `json:"totalDetailed"`
	RetriesUsed   int                  `json:"retriesUsed"`
	StartedAt     string               `json:"startedAt"`
	FinishedAt    string               `json:"finishedAt"`
	Results       []leagueResultDTO    `json:"results"`
	Fixtures      []enrichedFixtureDTO `json:"fixtures"`
}

type leagueResultDTO struct {
	League        string               `json:"league"`
	LeagueID      string               `json:"leagueId"`
	Season        int                  `json:"season"`
	State         string               `json:"state"`
	TotalFixtures int                  `json:"totalFixtures"`
	Detailed      int                  `json:"detailed"`
	DurationMs    int64                `json:"durationMs"`
	Error         string               `json:"error,omitempty"`
	ErrorSource   string               `json:"errorSource,omitempty"`
	Fixtures      []enrichedFixtureDTO `json:"fixtures"`
}

type participantDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Winner *bool  `json:"winner"`
}

type goalsDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type fixtureDTO struct {
	ID        string `json:"id"`
	LeagueID  string `json:"leagueId"`
	Season    int    `json:"season"`
	Round     string `json:"round,omitempty"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Timezone  string `json:"timezone,omitempty"`
	Referee   string `json:"referee,omitempty"`
	Venue     struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
		City string `json:"city,omitempty"`
	} `json:"venue"`
	Status struct {
		Long    string `json:"long"`
		Short   string `json:"short"`
		Elapsed *int   `json:"elapsed"`
	} `json:"status"`
	Teams struct {
		Home participantDTO `json:"home"`
		Away participantDTO `json:"away"`
	} `json:"teams"`
	Goals goalsDTO `json:"goals"`
	Score struct {
		HalfTime  goalsDTO `json:"halftime"`
		FullTime  goalsDTO `json:"fulltime"`
		ExtraTime goalsDTO `json:"extratime"`
		Penalty   goalsDTO `json:"penalty"`
	} `json:"score"`
}

type enrichedFixtureDTO struct {
	fixtureDTO
	Detailed   bool                `json:"detailed"`
	Events     []eventDTO          `json:"events"`
	Statistics []teamStatisticsDTO `json:"statistics"`
	Players    []teamPlayersDTO    `json:"players"`
}

type eventDTO struct {
	Elapsed    int    `json:"elapsed"`
	Extra      *int   `json:"extra"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	AssistID   string `json:"assistId,omitempty"`
	AssistName string `json:"assistName,omitempty"`
	Type       string `json:"type"`
	Detail     string `json:"detail"`
	Comments   string `json:"comments,omitempty"`
}

type teamStatisticsDTO struct {
	TeamID     string         `json:"teamId"`
	TeamName   string         `json:"teamName"`
	Statistics map[string]any `json:"statistics"`
}

type playerStatisticsDTO struct {
	PlayerID   string         `json:"playerId"`
	Name       string         `json:"name"`
	Statistics map[string]any `json:"statistics"`
}

type teamPlayersDTO struct {
	TeamID   string                `json:"teamId"`
	TeamName string                `json:"teamName"`
	Players  []playerStatisticsDTO `json:"players"`
}

type standingDTO struct {
	LeagueID       string `json:"leagueId"`
	Season         int    `json:"season"`
	Group          string `json:"group,omitempty"`
	Rank           int    `json:"rank"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	TeamLogo       string `json:"teamLogo,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Form           string `json:"form,omitempty"`
	Description    string `json:"description,omitempty"`
}

type oddValueDTO struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

type betDTO struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Values []oddValueDTO `json:"values"`
}

type bookmakerOddsDTO struct {
	FixtureID     string   `json:"fixtureId"`
	BookmakerID   string   `json:"bookmakerId"`
	BookmakerName string   `json:"bookmakerName"`
	Bets          []betDTO `json:"bets"`
}

type jobInfoDTO struct {
	Name           string `json:"name"`
	Schedule       string `json:"schedule"`
	Status         string `json:"status"`
	Runs           int64  `json:"runs"`
	Failures       int64  `json:"failures"`
	LastRunAt      string `json:"lastRunAt,omitempty"`
	LastDurationMs int64  `json:"lastDurationMs"`
	LastError      string `json:"lastError,omitempty"`
	NextRunAt      string `json:"nextRunAt,omitempty"`
}

type dateRefreshDTO struct {
	Date     string `json:"date"`
	Fixtures int    `json:"fixtures"`
	Error    string `json:"error,omitempty"`
}

type refreshReportDTO struct {
	RunID      string           `json:"runId"`
	Skipped    bool             `json:"skipped"`
	Dates      []dateRefreshDTO `json:"dates"`
	StartedAt  string           `json:"startedAt"`
	FinishedAt string           `json:"finishedAt"`
}

func idString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func optionalID(v int64) string {
	if v <= 0 {
		return ""
	}
	return idString(v)
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func ingestionReportToDTO(v usecase.IngestionReport) ingestionReportDTO {
	results := make([]leagueResultDTO, 0, len(v.Results))
	for _, result := range v.Results {
		results = append(results, leagueResultDTO{
			League:        result.League,
			LeagueID:      idString(result.LeagueID),
			Season:        result.Season,
			State:         string(result.State),
			TotalFixtures: result.TotalFixtures,
			Detailed:      result.Detailed,
			DurationMs:    result.Duration.Milliseconds(),
			Error:         result.Error,
			ErrorSource:   result.ErrorSource,
			Fixtures:      enrichedFixturesToDTO(result.Fixtures),
		})
	}

	return ingestionReportDTO{
		RunID:         v.RunID,
		Message:       v.Message,
		Mode:          string(v.Mode),
		Season:        v.Season,
		TotalLeagues:  v.TotalLeagues,
		TotalFixtures: v.TotalFixtures,
		TotalDetailed: v.TotalDetailed,
		RetriesUsed:   v.RetriesUsed,
		StartedAt:     formatTime(v.StartedAt),
		FinishedAt:    formatTime(v.FinishedAt),
		Results:       results,
		Fixtures:      enrichedFixturesToDTO(v.Fixtures),
	}
}

func enrichedFixturesToDTO(items []fixture.Enriched) []enrichedFixtureDTO {
	out := make([]enrichedFixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, enrichedFixtureToDTO(item))
	}
	return out
}

func enrichedFixtureToDTO(v fixture.Enriched) enrichedFixtureDTO {
	detail := v.Detail.Normalize()
	out := enrichedFixtureDTO{
		fixtureDTO: fixtureToDTO(v.Fixture),
		Detailed:   v.Detailed,
		Events:     make([]eventDTO, 0, len(detail.Events)),
		Statistics: make([]teamStatisticsDTO, 0, len(detail.Statistics)),
		Players:    make([]teamPlayersDTO, 0, len(detail.Players)),
	}
	for _, event := range detail.Events {
		out.Events = append(out.Events, eventDTO{
			Elapsed:    event.Elapsed,
			Extra:      event.Extra,
			TeamID:     idString(event.TeamID),
			TeamName:   event.TeamName,
			PlayerID:   optionalID(event.PlayerID),
			PlayerName: event.PlayerName,
			AssistID:   optionalID(event.AssistID),
			AssistName: event.AssistName,
			Type:       event.Type,
			Detail:     event.Detail,
			Comments:   event.Comments,
		})
	}
	for _, stat := range detail.Statistics {
		out.Statistics = append(out.Statistics, teamStatisticsDTO{
			TeamID:     idString(stat.TeamID),
			TeamName:   stat.TeamName,
			Statistics: nonNilValues(stat.Values),
		})
	}
	for _, team := range detail.Players {
		players := make([]playerStatisticsDTO, 0, len(team.Players))
		for _, player := range team.Players {
			players = append(players, playerStatisticsDTO{
				PlayerID:   idString(player.PlayerID),
				Name:       player.Name,
				Statistics: nonNilValues(player.Stats),
			})
		}
		out.Players = append(out.Players, teamPlayersDTO{
			TeamID:   idString(team.TeamID),
			TeamName: team.TeamName,
			Players:  players,
		})
	}
	return out
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	var out fixtureDTO
	out.ID = idString(v.ID)
	out.LeagueID = idString(v.LeagueID)
	out.Season = v.Season
	out.Round = v.Round
	out.Date = formatTime(v.Date)
	out.Timestamp = v.Timestamp
	out.Timezone = v.Timezone
	out.Referee = v.Referee
	out.Venue.ID = optionalID(v.Venue.ID)
	out.Venue.Name = v.Venue.Name
	out.Venue.City = v.Venue.City
	out.Status.Long = v.Status.Long
	out.Status.Short = string(v.Status.Short)
	out.Status.Elapsed = v.Status.Elapsed
	out.Teams.Home = participantToDTO(v.Teams.Home)
	out.Teams.Away = participantToDTO(v.Teams.Away)
	out.Goals = goalsDTO(v.Goals)
	out.Score.HalfTime = goalsDTO(v.Score.HalfTime)
	out.Score.FullTime = goalsDTO(v.Score.FullTime)
	out.Score.ExtraTime = goalsDTO(v.Score.ExtraTime)
	out.Score.Penalty = goalsDTO(v.Score.Penalty)
	return out
}

func participantToDTO(v fixture.Participant) participantDTO {
	return participantDTO{
		ID:     idString(v.ID),
		Name:   v.Name,
		Logo:   v.Logo,
		Winner: v.Winner,
	}
}

func nonNilValues(v map[string]any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v
}

func standingToDTO(v league.Standing) standingDTO {
	return standingDTO{
		LeagueID:       idString(v.LeagueID),
		Season:         v.Season,
		Group:          v.Group,
		Rank:           v.Rank,
		TeamID:         idString(v.TeamID),
		TeamName:       v.TeamName,
		TeamLogo:       v.TeamLogo,
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Points:         v.Points,
		Form:           v.Form,
		Description:    v.Description,
	}
}

func bookmakerOddsToDTO(v fixture.BookmakerOdds) bookmakerOddsDTO {
	bets := make([]betDTO, 0, len(v.Bets))
	for _, bet := range v.Bets {
		values := make([]oddValueDTO, 0, len(bet.Values))
		for _, value := range bet.Values {
			values = append(values, oddValueDTO(value))
		}
		bets = append(bets, betDTO{ID: idString(bet.ID), Name: bet.Name, Values: values})
	}
	return bookmakerOddsDTO{
		FixtureID:     idString(v.FixtureID),
		BookmakerID:   idString(v.BookmakerID),
		BookmakerName: v.BookmakerName,
		Bets:          bets,
	}
}

func jobInfoToDTO(v jobscheduler.JobInfo) jobInfoDTO {
	return jobInfoDTO{
		Name:           v.Name,
		Schedule:       v.Schedule,
		Status:         string(v.Status),
		Runs:           v.Runs,
		Failures:       v.Failures,
		LastRunAt:      formatTime(v.LastRunAt),
		LastDurationMs: v.LastDuration.Milliseconds(),
		LastError:      v.LastError,
		NextRunAt:      formatTime(v.NextRunAt),
	}
}

func refreshReportToDTO(v usecase.RefreshReport) refreshReportDTO {
	dates := make([]dateRefreshDTO, 0, len(v.Dates))
	for _, date := range v.Dates {
		dates = append(dates, dateRefreshDTO{
			Date:     date.Date,
			Fixtures: date.Fixtures,
			Error:    date.Error,
		})
	}
	return refreshReportDTO{
		RunID:      v.RunID,
		Skipped:    v.Skipped,
		Dates:      dates,
		StartedAt:  formatTime(v.StartedAt),
		FinishedAt: formatTime(v.FinishedAt),
	}
}
