// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
)

// Default window for GET /events when no cutoff is supplied.
const defaultSinceWindow = 7 * 24 * time.Hour

// EventsHandler handles timeline read requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleGetEvents handles GET /events requests. Supported query
// parameters: since (RFC3339 cutoff, default one week back) and limit.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	since := time.Now().UTC().Add(-defaultSinceWindow)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		since = parsed.UTC()
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = parsed
	}

	events, err := h.deps.ListEvents(r.Context(), since, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if events == nil {
		events = []model.VerifiedEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
