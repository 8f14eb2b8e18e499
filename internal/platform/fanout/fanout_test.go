package fanout

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_NeverExceedsLimit(t *testing.T) {
	for _, limit := range []int{1, 3, 8} {
		items := make([]int, 40)
		for i := range items {
			items[i] = i
		}

		var live, maxLive atomic.Int32
		_, err := Run(context.Background(), limit, items, func(_ context.Context, item int) int {
			current := live.Add(1)
			for {
				seen := maxLive.Load()
				if current <= seen || maxLive.CompareAndSwap(seen, current) {
					break
				}
			}
			time.Sleep(time.Duration(1+item%4) * time.Millisecond)
			live.Add(-1)
			return item
		})
		if err != nil {
			t.Fatalf("limit=%d run failed: %v", limit, err)
		}
		if got := maxLive.Load(); int(got) > limit {
			t.Fatalf("limit=%d observed %d concurrent workers", limit, got)
		}
	}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	delays := make([]time.Duration, 25)
	var mu sync.Mutex
	for i := range delays {
		delays[i] = time.Duration(rng.Intn(8)) * time.Millisecond
	}

	items := make([]int, len(delays))
	for i := range items {
		items[i] = i * 10
	}

	got, err := Run(context.Background(), 5, items, func(_ context.Context, item int) int {
		mu.Lock()
		d := delays[item/10]
		mu.Unlock()
		time.Sleep(d)
		return item + 1
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i := range items {
		if got[i] != items[i]+1 {
			t.Fatalf("result %d out of order: got=%d want=%d", i, got[i], items[i]+1)
		}
	}
}

func TestRun_EmptyInputAndZeroLimit(t *testing.T) {
	got, err := Run(context.Background(), 0, []string{}, func(_ context.Context, s string) string { return s })
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got=%v err=%v", got, err)
	}

	got, err = Run(context.Background(), 0, []string{"a", "b"}, func(_ context.Context, s string) string { return s + "!" })
	if err != nil {
		t.Fatalf("run with zero limit failed: %v", err)
	}
	if got[0] != "a!" || got[1] != "b!" {
		t.Fatalf("unexpected results %v", got)
	}
}

func TestRun_StopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	got, err := Run(ctx, 2, []int{1, 2, 3}, func(_ context.Context, item int) int {
		calls.Add(1)
		return item
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no dispatch after cancel, got %d calls", calls.Load())
	}
	if len(got) != 3 || got[0] != 0 {
		t.Fatalf("expected zero-valued results, got %v", got)
	}
}

func TestConcurrencyFromRPM(t *testing.T) {
	tests := []struct {
		rpm      int
		fraction float64
		want     int
	}{
		{rpm: 300, fraction: 0.8, want: 4},
		{rpm: 450, fraction: 0.8, want: 6},
		{rpm: 30, fraction: 0.8, want: 1},
		{rpm: 0, fraction: 0.8, want: 1},
		{rpm: 600, fraction: 0, want: 8},
		{rpm: 600, fraction: 1, want: 10},
	}
	for _, tt := range tests {
		if got := ConcurrencyFromRPM(tt.rpm, tt.fraction); got != tt.want {
			t.Fatalf("ConcurrencyFromRPM(%d, %v)=%d want=%d", tt.rpm, tt.fraction, got, tt.want)
		}
	}
}
