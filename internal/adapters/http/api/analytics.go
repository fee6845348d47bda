package api

import (
	"context"
	"net/http"

	"github.com/okian/skillpulse/internal/domain/analytics"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
)

// AnalyticsDependencies defines what the analytics handler needs.
type AnalyticsDependencies interface {
	TopSkills(ctx context.Context, limit int) ([]model.SkillCount, error)
	SkillsByLocation(ctx context.Context, limit int) ([]model.LocationSkills, error)
}

// AnalyticsHandler handles skill frequency requests.
type AnalyticsHandler struct {
	deps   AnalyticsDependencies
	logger logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies, l logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps, logger: l}
}

// HandleTopSkills handles GET /v1/skills/top?limit=N.
func (h *AnalyticsHandler) HandleTopSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_skills"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := intParam(r, "limit", analytics.DefaultTopLimit, 1, analytics.MaxTopLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	skills, err := h.deps.TopSkills(r.Context(), limit)
	if err != nil {
		fail(r.Context(), w, h.logger, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// HandleByLocation handles GET /v1/skills/by-location?limit_per_location=N.
func (h *AnalyticsHandler) HandleByLocation(w http.ResponseWriter, r *http.Request) {
	const op = "api.skills_by_location"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := intParam(r, "limit_per_location", analytics.DefaultPerLocationLimit, 1, analytics.MaxPerLocationLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	locs, err := h.deps.SkillsByLocation(r.Context(), limit)
	if err != nil {
		fail(r.Context(), w, h.logger, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, locs)
}
