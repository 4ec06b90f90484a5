package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider exposes a point-in-time snapshot of service counters:
// queue depth, corpus fill, timeline size, and batch-loop settings.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the monitoring snapshot.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler backed by the given provider.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats serves GET /stats. The snapshot is computed per request
// and must not be cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(h.stats.GetStats())
}
