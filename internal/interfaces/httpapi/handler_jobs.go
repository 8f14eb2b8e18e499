package httpapi

import (
	"fmt"
	"net/http"

	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	if h.refresh == nil {
		writeError(ctx, w, fmt.Errorf("%w: refresh job is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.refresh.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, refreshReportToDTO(report))
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobs")
	defer span.End()

	if h.jobs == nil {
		writeSuccess(ctx, w, http.StatusOK, []jobInfoDTO{})
		return
	}

	jobs := h.jobs.Jobs()
	out := make([]jobInfoDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, jobInfoToDTO(job))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
