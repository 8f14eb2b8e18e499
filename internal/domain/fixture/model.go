package fixture

import (
	"fmt"
	"strings"
	"time"
)

// StatusCode is the provider's short match status.
type StatusCode string

const (
	StatusTBD               StatusCode = "TBD"
	StatusNotStarted        StatusCode = "NS"
	StatusFirstHalf         StatusCode = "1H"
	StatusHalfTime          StatusCode = "HT"
	StatusSecondHalf        StatusCode = "2H"
	StatusExtraTime         StatusCode = "ET"
	StatusBreakTime         StatusCode = "BT"
	StatusPenaltyInProgress StatusCode = "P"
	StatusSuspended         StatusCode = "SUSP"
	StatusInterrupted       StatusCode = "INT"
	StatusLive              StatusCode = "LIVE"
	StatusFullTime          StatusCode = "FT"
	StatusAfterExtraTime    StatusCode = "AET"
	StatusAfterPenalties    StatusCode = "PEN"
	StatusPostponed         StatusCode = "PST"
	StatusCancelled         StatusCode = "CANC"
	StatusAbandoned         StatusCode = "ABD"
	StatusTechnicalLoss     StatusCode = "AWD"
	StatusWalkover          StatusCode = "WO"
)

func NormalizeStatus(value string) StatusCode {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusTBD
	}
	return StatusCode(status)
}

// IsUpcoming reports statuses that need no enrichment because the match has
// not started. Anything else, including unknown codes, counts as past or live.
func (s StatusCode) IsUpcoming() bool {
	switch s {
	case StatusNotStarted, StatusTBD, StatusPostponed:
		return true
	default:
		return false
	}
}

func (s StatusCode) IsLive() bool {
	switch s {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime,
		StatusBreakTime, StatusPenaltyInProgress, StatusSuspended, StatusInterrupted, StatusLive:
		return true
	default:
		return false
	}
}

func (s StatusCode) IsFinished() bool {
	switch s {
	case StatusFullTime, StatusAfterExtraTime, StatusAfterPenalties, StatusTechnicalLoss, StatusWalkover:
		return true
	default:
		return false
	}
}

type Status struct {
	Long    string
	Short   StatusCode
	Elapsed *int
}

type Venue struct {
	ID   int64
	Name string
	City string
}

type Participant struct {
	ID     int64
	Name   string
	Logo   string
	Winner *bool
}

type Teams struct {
	Home Participant
	Away Participant
}

type Goals struct {
	Home *int
	Away *int
}

type Score struct {
	HalfTime  Goals
	FullTime  Goals
	ExtraTime Goals
	Penalty   Goals
}

// Fixture represents one scheduled or played match.
type Fixture struct {
	ID        int64
	LeagueID  int64
	Season    int
	Round     string
	Date      time.Time
	Timestamp int64
	Timezone  string
	Referee   string
	Venue     Venue
	Status    Status
	Teams     Teams
	Goals     Goals
	Score     Score
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id is required")
	}
	if f.Teams.Home.ID <= 0 || f.Teams.Away.ID <= 0 {
		return fmt.Errorf("fixture %d: both participants are required", f.ID)
	}
	if f.Teams.Home.ID == f.Teams.Away.ID {
		return fmt.Errorf("fixture %d: home and away participant must differ", f.ID)
	}
	return nil
}
