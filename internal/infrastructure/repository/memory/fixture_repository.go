// Package memory keeps fixtures in process. It backs local runs without a
// database and the tests of the layers above.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[int64]fixture.Enriched
}

var _ fixture.Repository = (*FixtureRepository)(nil)

func NewFixtureRepository(seed ...fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{fixtures: make(map[int64]fixture.Enriched, len(seed))}
	for _, item := range seed {
		r.fixtures[item.ID] = fixture.Plain(item)
	}
	return r
}

func (r *FixtureRepository) SaveBatch(_ context.Context, items []fixture.Enriched) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		// A plain refresh must not erase detail fetched earlier.
		if prev, ok := r.fixtures[item.Fixture.ID]; ok && prev.Detailed && !item.Detailed {
			item.Detail = prev.Detail
			item.Detailed = true
		}
		r.fixtures[item.Fixture.ID] = item
	}
	return nil
}

func (r *FixtureRepository) ListByLeague(_ context.Context, leagueID int64, season int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.fixtures {
		if item.Fixture.LeagueID != leagueID || item.Fixture.Season != season {
			continue
		}
		out = append(out, item.Fixture)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Get returns the stored fixture with its detail.
func (r *FixtureRepository) Get(id int64) (fixture.Enriched, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[id]
	return item, ok
}

func (r *FixtureRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fixtures)
}
