package fixture

type Event struct {
	Elapsed    int
	Extra      *int
	TeamID     int64
	TeamName   string
	PlayerID   int64
	PlayerName string
	AssistID   int64
	AssistName string
	Type       string
	Detail     string
	Comments   string
}

type TeamStatistics struct {
	TeamID   int64
	TeamName string
	Values   map[string]any
}

type PlayerStatistics struct {
	PlayerID int64
	Name     string
	Stats    map[string]any
}

type TeamPlayers struct {
	TeamID   int64
	TeamName string
	Players  []PlayerStatistics
}

// Detail is the enrichment of one fixture. A part that could not be fetched
// is an empty collection, never nil.
type Detail struct {
	Events     []Event
	Statistics []TeamStatistics
	Players    []TeamPlayers
}

func EmptyDetail() Detail {
	return Detail{
		Events:     []Event{},
		Statistics: []TeamStatistics{},
		Players:    []TeamPlayers{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d Detail) Normalize() Detail {
	if d.Events == nil {
		d.Events = []Event{}
	}
	if d.Statistics == nil {
		d.Statistics = []TeamStatistics{}
	}
	if d.Players == nil {
		d.Players = []TeamPlayers{}
	}
	return d
}

func (d Detail) IsEmpty() bool {
	return len(d.Events) == 0 && len(d.Statistics) == 0 && len(d.Players) == 0
}

// Enriched pairs a fixture with its detail. Detailed is set when the fixture
// went through detail fetching, even if every part came back empty.
type Enriched struct {
	Fixture  Fixture
	Detail   Detail
	Detailed bool
}

func Plain(f Fixture) Enriched {
	return Enriched{Fixture: f, Detail: EmptyDetail()}
}
