package api

import (
	"context"
	"net/http"

	service "github.com/okian/skillpulse/internal/app"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
)

// EmergingDependencies defines what the emerging-skills handler needs.
type EmergingDependencies interface {
	EmergingSkills(ctx context.Context, minClusterSize int) (model.EmergingSkills, error)
}

// EmergingHandler handles emerging-skill detection requests.
type EmergingHandler struct {
	deps   EmergingDependencies
	logger logger.Logger
}

// NewEmergingHandler creates a new emerging-skills handler.
func NewEmergingHandler(deps EmergingDependencies, l logger.Logger) *EmergingHandler {
	return &EmergingHandler{deps: deps, logger: l}
}

// HandleEmerging handles GET /v2/skills/emerging?min_cluster_size=N.
func (h *EmergingHandler) HandleEmerging(w http.ResponseWriter, r *http.Request) {
	const op = "api.emerging_skills"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	size, err := intParam(r, "min_cluster_size", service.DefaultClusterSize, service.MinClusterSize, service.MaxClusterSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.EmergingSkills(r.Context(), size)
	if err != nil {
		fail(r.Context(), w, h.logger, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
