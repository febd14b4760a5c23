package coachhttp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/httpjson"
	"github.com/programme-lv/cfcoach/logger"
)

type CoachService interface {
	GetUserReport(ctx context.Context, handle string) (*coachsrvc.UserReport, error)
	GetProblem(ctx context.Context, contestID string, index string) (*coachsrvc.ProblemDetails, error)
}

// HealthProbe reports the state of one dependency for /healthz.
type HealthProbe func() any

type CoachHttpHandler struct {
	coachSrvc CoachService
	probes    map[string]HealthProbe
}

func NewCoachHttpHandler(coachSrvc CoachService, probes map[string]HealthProbe) *CoachHttpHandler {
	return &CoachHttpHandler{
		coachSrvc: coachSrvc,
		probes:    probes,
	}
}

func (h *CoachHttpHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{handle}/stats", h.GetUserStats)
	r.Get("/problems/{contestId}/{index}", h.GetProblem)
	r.Get("/healthz", h.Health)
}

func (h *CoachHttpHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	ctx := logger.With(r.Context(), "handle", handle)

	report, err := h.coachSrvc.GetUserReport(ctx, handle)
	if err != nil {
		httpjson.HandleError(logger.FromContext(ctx), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapUserReport(report))
}

func (h *CoachHttpHandler) GetProblem(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestId")
	index := chi.URLParam(r, "index")
	ctx := logger.With(r.Context(), "contest_id", contestID, "index", index)

	p, err := h.coachSrvc.GetProblem(ctx, contestID, index)
	if err != nil {
		httpjson.HandleError(logger.FromContext(ctx), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapProblemDetails(p))
}

func (h *CoachHttpHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := make(map[string]any, len(h.probes))
	for name, probe := range h.probes {
		res[name] = probe()
	}
	httpjson.WriteSuccessJson(w, res)
}
