package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

const maxLatestWait = 2 * time.Minute

type leagueFixturesQuery struct {
	Leagues []string `validate:"max=50,dive,required,max=64"`
	Mode    string   `validate:"omitempty,oneof=await background"`
}

type latestReportQuery struct {
	Wait time.Duration `validate:"gte=0s,lte=2m"`
}

// LeagueFixtures runs one full ingestion and answers with its report. The
// run is detached from the request context so a client hanging up does not
// abort a run other callers may be sharing.
func (h *Handler) LeagueFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeagueFixtures")
	defer span.End()

	if h.ingestion == nil {
		writeRunError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrMisconfigured))
		return
	}

	query := leagueFixturesQuery{
		Leagues: splitLeagueKeys(r.URL.Query()["league"]),
		Mode:    strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode"))),
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeRunError(ctx, w, err)
		return
	}

	report, err := h.ingestion.Run(context.WithoutCancel(ctx), usecase.RunOptions{
		Leagues: query.Leagues,
		Mode:    usecase.PersistMode(query.Mode),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "league fixtures run failed", "error", err)
		writeRunError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ingestionReportToDTO(report))
}

// LatestReport returns the last completed run. With ?wait it blocks until
// the next run completes or the wait elapses.
func (h *Handler) LatestReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LatestReport")
	defer span.End()

	if h.ingestion == nil || h.ingestion.Reports() == nil {
		writeError(ctx, w, fmt.Errorf("%w: report cache is not configured", usecase.ErrMisconfigured))
		return
	}

	var query latestReportQuery
	if raw := strings.TrimSpace(r.URL.Query().Get("wait")); raw != "" {
		wait, err := time.ParseDuration(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: wait must be a duration such as 30s", usecase.ErrInvalidInput))
			return
		}
		query.Wait = wait
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: wait must be between 0s and %s", usecase.ErrInvalidInput, maxLatestWait))
		return
	}

	reports := h.ingestion.Reports()
	if query.Wait == 0 {
		report, _, ok := reports.Get()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, ingestionReportToDTO(report))
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, query.Wait)
	defer cancel()
	report, err := reports.Await(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, ingestionReportToDTO(report))
}

// splitLeagueKeys accepts both ?league=a&league=b and ?league=a,b.
func splitLeagueKeys(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
