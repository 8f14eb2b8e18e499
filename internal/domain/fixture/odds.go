package fixture

type OddValue struct {
	Value string
	Odd   string
}

type Bet struct {
	ID     int64
	Name   string
	Values []OddValue
}

// BookmakerOdds is the pre-match odds one bookmaker publishes for a fixture.
type BookmakerOdds struct {
	FixtureID     int64
	BookmakerID   int64
	BookmakerName string
	Bets          []Bet
}
