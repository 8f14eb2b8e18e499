package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/jobscheduler"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	"github.com/go-playground/validator/v10"
)

// JobLister exposes scheduled job bookkeeping.
type JobLister interface {
	Jobs() []jobscheduler.JobInfo
}

// HealthCheck reports one dependency's state for /healthz.
type HealthCheck struct {
	Name   string
	Status func(ctx context.Context) any
}

type HandlerDeps struct {
	Ingestion *usecase.IngestionService
	Fixtures  *usecase.FixtureService
	Standings *usecase.LeagueStandingService
	Refresh   *usecase.RefreshJob
	Jobs      JobLister
	Health    []HealthCheck
	Logger    *logging.Logger
}

type Handler struct {
	ingestion *usecase.IngestionService
	fixtures  *usecase.FixtureService
	standings *usecase.LeagueStandingService
	refresh   *usecase.RefreshJob
	jobs      JobLister
	health    []HealthCheck
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestion: deps.Ingestion,
		fixtures:  deps.Fixtures,
		standings: deps.Standings,
		refresh:   deps.Refresh,
		jobs:      deps.Jobs,
		health:    deps.Health,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	body := map[string]any{"status": "ok"}
	for _, check := range h.health {
		if check.Status != nil {
			body[check.Name] = check.Status(ctx)
		}
	}
	writeSuccess(ctx, w, http.StatusOK, body)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parsePathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// parseSeason reads the optional season query parameter; zero means the
// configured season.
func parseSeason(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	if raw == "" {
		return 0, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season < 1900 || season > 2100 {
		return 0, fmt.Errorf("%w: season must be a year", usecase.ErrInvalidInput)
	}
	return season, nil
}
