package fixture

import "context"

// Sink stores batches of fixtures. A fixture whose id is already stored is
// overwritten in place.
type Sink interface {
	SaveBatch(ctx context.Context, items []Enriched) error
}

// Repository adds read access to persisted fixtures.
type Repository interface {
	Sink
	ListByLeague(ctx context.Context, leagueID int64, season int) ([]Fixture, error)
}
