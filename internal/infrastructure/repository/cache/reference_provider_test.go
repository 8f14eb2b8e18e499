package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	usecasemock "github.com/LanceSports/LanceSports-sub000/internal/mocks/usecase"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store down")
}

func TestReferenceProvider_CachesStandings(t *testing.T) {
	t.Parallel()

	next := usecasemock.NewReferenceProvider(t)
	next.On("FetchStandings", mock.Anything, int64(39), 2026).
		Return([]league.Standing{{LeagueID: 39, Rank: 1, TeamName: "Arsenal"}}, nil).
		Once()

	provider := NewReferenceProvider(next, NewMemoryStore(), ReferenceConfig{}, logging.NewNop())
	for i := 0; i < 3; i++ {
		got, err := provider.FetchStandings(context.Background(), 39, 2026)
		if err != nil {
			t.Fatalf("fetch standings: %v", err)
		}
		if len(got) != 1 || got[0].TeamName != "Arsenal" {
			t.Fatalf("unexpected standings: %+v", got)
		}
	}
}

func TestReferenceProvider_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	next := usecasemock.NewReferenceProvider(t)
	next.On("FetchOdds", mock.Anything, int64(7)).Return(nil, errors.New("boom")).Once()
	next.On("FetchOdds", mock.Anything, int64(7)).
		Return([]fixture.BookmakerOdds{{FixtureID: 7, BookmakerName: "Bet365"}}, nil).
		Once()

	provider := NewReferenceProvider(next, NewMemoryStore(), ReferenceConfig{}, logging.NewNop())
	if _, err := provider.FetchOdds(context.Background(), 7); err == nil {
		t.Fatalf("expected first call to fail")
	}
	got, err := provider.FetchOdds(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch odds: %v", err)
	}
	if len(got) != 1 || got[0].BookmakerName != "Bet365" {
		t.Fatalf("unexpected odds: %+v", got)
	}
}

func TestReferenceProvider_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()

	next := usecasemock.NewReferenceProvider(t)
	next.On("FetchOdds", mock.Anything, int64(8)).Return(nil, nil).Twice()

	provider := NewReferenceProvider(next, failingStore{}, ReferenceConfig{}, logging.NewNop())
	for i := 0; i < 2; i++ {
		got, err := provider.FetchOdds(context.Background(), 8)
		if err != nil {
			t.Fatalf("fetch odds: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil odds, got %#v", got)
		}
	}
}

func TestReferenceProvider_EmptyStandingsStayNonNil(t *testing.T) {
	t.Parallel()

	next := usecasemock.NewReferenceProvider(t)
	next.On("FetchStandings", mock.Anything, int64(2), 2026).Return(nil, nil).Once()

	store := NewMemoryStore()
	provider := NewReferenceProvider(next, store, ReferenceConfig{}, logging.NewNop())
	for i := 0; i < 2; i++ {
		got, err := provider.FetchStandings(context.Background(), 2, 2026)
		if err != nil {
			t.Fatalf("fetch standings: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil standings on call %d, got %#v", i, got)
		}
	}

	if err := store.Set(context.Background(), "odds:9", []byte("null"), time.Minute); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	odds, err := provider.FetchOdds(context.Background(), 9)
	if err != nil {
		t.Fatalf("fetch odds: %v", err)
	}
	if odds == nil || len(odds) != 0 {
		t.Fatalf("expected empty non-nil odds from a null cache entry, got %#v", odds)
	}
}

func TestReferenceProvider_ResultsAreCopies(t *testing.T) {
	t.Parallel()

	next := usecasemock.NewReferenceProvider(t)
	next.On("FetchOdds", mock.Anything, int64(5)).
		Return([]fixture.BookmakerOdds{{FixtureID: 5, BookmakerName: "Bet365"}}, nil).
		Once()

	provider := NewReferenceProvider(next, NewMemoryStore(), ReferenceConfig{}, logging.NewNop())
	first, err := provider.FetchOdds(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch odds: %v", err)
	}
	first[0].BookmakerName = "changed"

	second, err := provider.FetchOdds(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch odds: %v", err)
	}
	if second[0].BookmakerName != "Bet365" {
		t.Fatalf("expected cached odds untouched, got %+v", second)
	}
}

func TestMemoryStore_Expires(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	if err := store.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok, _ := store.Get(context.Background(), "k"); !ok || string(got) != "v" {
		t.Fatalf("expected cached value, got %q ok=%v", got, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}
