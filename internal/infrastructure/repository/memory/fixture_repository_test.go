package memory

import (
	"context"
	"testing"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
)

func TestFixtureRepository_SaveBatchOverwritesByID(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository()
	ctx := context.Background()
	kickoff := time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC)

	first := fixture.Fixture{ID: 1, LeagueID: 39, Season: 2026, Date: kickoff, Status: fixture.Status{Short: fixture.StatusNotStarted}}
	if err := repo.SaveBatch(ctx, []fixture.Enriched{fixture.Plain(first)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := first
	second.Status.Short = fixture.StatusFullTime
	if err := repo.SaveBatch(ctx, []fixture.Enriched{fixture.Plain(second)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if repo.Len() != 1 {
		t.Fatalf("expected one stored fixture, got %d", repo.Len())
	}
	got, ok := repo.Get(1)
	if !ok || got.Fixture.Status.Short != fixture.StatusFullTime {
		t.Fatalf("expected overwritten status, got %+v", got.Fixture.Status)
	}
}

func TestFixtureRepository_PlainSaveKeepsDetail(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository()
	ctx := context.Background()
	item := fixture.Fixture{ID: 5, LeagueID: 39, Season: 2026}

	detailed := fixture.Enriched{
		Fixture:  item,
		Detail:   fixture.Detail{Events: []fixture.Event{{Type: "Goal"}}, Statistics: []fixture.TeamStatistics{}, Players: []fixture.TeamPlayers{}},
		Detailed: true,
	}
	if err := repo.SaveBatch(ctx, []fixture.Enriched{detailed}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveBatch(ctx, []fixture.Enriched{fixture.Plain(item)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := repo.Get(5)
	if !got.Detailed || len(got.Detail.Events) != 1 {
		t.Fatalf("expected detail to survive a plain refresh, got %+v", got)
	}
}

func TestFixtureRepository_ListByLeagueSortedByKickoff(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	repo := NewFixtureRepository(
		fixture.Fixture{ID: 3, LeagueID: 39, Season: 2026, Date: base.Add(2 * time.Hour)},
		fixture.Fixture{ID: 2, LeagueID: 39, Season: 2026, Date: base},
		fixture.Fixture{ID: 1, LeagueID: 39, Season: 2026, Date: base},
		fixture.Fixture{ID: 4, LeagueID: 140, Season: 2026, Date: base},
		fixture.Fixture{ID: 5, LeagueID: 39, Season: 2025, Date: base},
	)

	got, err := repo.ListByLeague(context.Background(), 39, 2026)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Fatalf("unexpected order: %+v", fixture.IDs(enrich(got)))
	}
}

func enrich(items []fixture.Fixture) []fixture.Enriched {
	out := make([]fixture.Enriched, 0, len(items))
	for _, item := range items {
		out = append(out, fixture.Plain(item))
	}
	return out
}
