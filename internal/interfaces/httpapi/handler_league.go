package httpapi

import (
	"fmt"
	"net/http"

	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

func (h *Handler) ListStoredFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStoredFixtures")
	defer span.End()

	if h.fixtures == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture service is not configured", usecase.ErrMisconfigured))
		return
	}
	leagueID, err := parsePathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := parseSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fixtures.ListByLeague(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list stored fixtures failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	if h.standings == nil {
		writeError(ctx, w, fmt.Errorf("%w: standing service is not configured", usecase.ErrMisconfigured))
		return
	}
	leagueID, err := parsePathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := parseSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.standings.ListByLeague(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) FixtureOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixtureOdds")
	defer span.End()

	if h.fixtures == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture service is not configured", usecase.ErrMisconfigured))
		return
	}
	fixtureID, err := parsePathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fixtures.Odds(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture odds failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]bookmakerOddsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, bookmakerOddsToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
