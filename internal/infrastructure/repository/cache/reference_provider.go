// Package cache wraps slow upstream reads with a TTL cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/fixture"
	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	"github.com/bytedance/sonic"
)

const (
	defaultStandingsTTL = 10 * time.Minute
	defaultOddsTTL      = 5 * time.Minute
)

type ReferenceConfig struct {
	StandingsTTL time.Duration
	OddsTTL      time.Duration
}

// ReferenceProvider caches standings and odds lookups. Cache failures are
// logged and fall through to the wrapped provider; upstream errors are never
// cached.
type ReferenceProvider struct {
	next      usecase.ReferenceProvider
	store     Store
	cfg       ReferenceConfig
	logger    *logging.Logger
	standings resilience.SingleFlight[[]league.Standing]
	odds      resilience.SingleFlight[[]fixture.BookmakerOdds]
}

var _ usecase.ReferenceProvider = (*ReferenceProvider)(nil)

func NewReferenceProvider(next usecase.ReferenceProvider, store Store, cfg ReferenceConfig, logger *logging.Logger) *ReferenceProvider {
	if cfg.StandingsTTL <= 0 {
		cfg.StandingsTTL = defaultStandingsTTL
	}
	if cfg.OddsTTL <= 0 {
		cfg.OddsTTL = defaultOddsTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceProvider{next: next, store: store, cfg: cfg, logger: logger.Named("reference_cache")}
}

func (p *ReferenceProvider) FetchStandings(ctx context.Context, leagueID int64, season int) ([]league.Standing, error) {
	key := fmt.Sprintf("standings:%d:%d", leagueID, season)
	items, err, _ := p.standings.Do(key, func() ([]league.Standing, error) {
		return readThrough(ctx, p, key, p.cfg.StandingsTTL, func(ctx context.Context) ([]league.Standing, error) {
			return p.next.FetchStandings(ctx, leagueID, season)
		})
	})
	if err != nil {
		return nil, err
	}
	return cloneItems(items), nil
}

func (p *ReferenceProvider) FetchOdds(ctx context.Context, fixtureID int64) ([]fixture.BookmakerOdds, error) {
	key := fmt.Sprintf("odds:%d", fixtureID)
	items, err, _ := p.odds.Do(key, func() ([]fixture.BookmakerOdds, error) {
		return readThrough(ctx, p, key, p.cfg.OddsTTL, func(ctx context.Context) ([]fixture.BookmakerOdds, error) {
			return p.next.FetchOdds(ctx, fixtureID)
		})
	})
	if err != nil {
		return nil, err
	}
	return cloneItems(items), nil
}

func readThrough[T any](ctx context.Context, p *ReferenceProvider, key string, ttl time.Duration, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, ok, err := p.store.Get(ctx, key); err != nil {
		p.logger.WarnContext(ctx, "reference cache read failed", "key", key, "error", err)
	} else if ok {
		var items []T
		if err := sonic.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		p.logger.WarnContext(ctx, "reference cache entry undecodable", "key", key)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	raw, err := sonic.Marshal(items)
	if err != nil {
		p.logger.WarnContext(ctx, "reference cache encode failed", "key", key, "error", err)
		return items, nil
	}
	if err := p.store.Set(ctx, key, raw, ttl); err != nil {
		p.logger.WarnContext(ctx, "reference cache write failed", "key", key, "error", err)
	}
	return items, nil
}

// cloneItems copies a shared singleflight result so callers can't mutate
// each other's slices. Empty results stay non-nil.
func cloneItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
