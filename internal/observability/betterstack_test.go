package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/config"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	sonic "github.com/bytedance/sonic"
)

type betterStackRecorder struct {
	mu       sync.Mutex
	requests int
	auth     string
	entries  []map[string]any
}

func (r *betterStackRecorder) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		var batch []map[string]any
		if err := sonic.Unmarshal(raw, &batch); err != nil {
			t.Errorf("expected JSON array body, got %q: %v", raw, err)
		}

		r.mu.Lock()
		r.requests++
		r.auth = req.Header.Get("Authorization")
		r.entries = append(r.entries, batch...)
		r.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
}

func newBetterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "lancesports-ingest",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsBatchedErrors(t *testing.T) {
	t.Parallel()

	rec := &betterStackRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(newBetterStackConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "persist league fixtures failed", "league_id", 39)
	logger.ErrorContext(context.Background(), "fetch league fixtures failed", "league_id", 140)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.requests == 0 {
		t.Fatalf("expected Better Stack endpoint to receive at least 1 request")
	}
	if rec.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", rec.auth)
	}
	if len(rec.entries) != 2 || rec.entries[0]["msg"] != "persist league fixtures failed" {
		t.Fatalf("unexpected shipped entries: %v", rec.entries)
	}
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	rec := &betterStackRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(newBetterStackConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.InfoContext(context.Background(), "info log should not be shipped")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.requests != 0 {
		t.Fatalf("expected no request for info log, got %d", rec.requests)
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	base := logging.NewNop()
	logger, shutdown, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if logger != base {
		t.Fatalf("expected base logger when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                             "",
		"in.logs.betterstack.com":      "https://in.logs.betterstack.com",
		"http://localhost:9000/ingest": "http://localhost:9000/ingest",
	}
	for in, want := range cases {
		if got := normalizeBetterStackEndpoint(in); got != want {
			t.Fatalf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}
