package api

import (
	"net/http"

	"github.com/okian/skillpulse/internal/domain/model"
)

// StatsProvider reports a snapshot of service state.
type StatsProvider interface {
	GetStats() model.ServiceStats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes the current snapshot. Responses are never cached since
// queue and worker counts change between calls.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
