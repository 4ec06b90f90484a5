// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/sitrep/pkg/metrics"
)

// ArticleDependencies defines the interface for article ingestion.
type ArticleDependencies interface {
	Dependencies
}

// ArticlesHandler handles article and feed submissions.
type ArticlesHandler struct {
	deps  ArticleDependencies
	feeds FeedParser
}

// NewArticlesHandler creates a new articles handler.
func NewArticlesHandler(deps ArticleDependencies, feeds FeedParser) *ArticlesHandler {
	return &ArticlesHandler{deps: deps, feeds: feeds}
}

// HandlePostArticles handles POST /articles requests. The body is a
// JSON array of article records; valid articles are enqueued for the
// next processing batch.
func (h *ArticlesHandler) HandlePostArticles(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_articles"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var reqs []articleRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrEmptyBatch))
		return
	}
	for _, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	h.enqueueAll(w, r, reqs)
}

// HandlePostFeed handles POST /feeds requests. The body is a raw
// RSS/Atom document already fetched by the caller; the source query
// parameter names the outlet.
func (h *ArticlesHandler) HandlePostFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_feed"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	articles, err := h.feeds.ParseFeed(r.Body, r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(articles) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrEmptyBatch))
		return
	}

	accepted, rejected := 0, 0
	for _, a := range articles {
		if h.deps.Enqueue(r.Context(), a) {
			accepted++
		} else {
			rejected++
		}
	}
	respondEnqueued(w, op, accepted, rejected)
}

func (h *ArticlesHandler) enqueueAll(w http.ResponseWriter, r *http.Request, reqs []articleRequest) {
	const op = "api.post_articles"

	accepted, rejected := 0, 0
	for _, req := range reqs {
		if h.deps.Enqueue(r.Context(), req.toModel()) {
			accepted++
		} else {
			rejected++
		}
	}
	respondEnqueued(w, op, accepted, rejected)
}

func respondEnqueued(w http.ResponseWriter, op string, accepted, rejected int) {
	if accepted == 0 {
		metrics.RecordErrorByComponent("api", "backpressure")
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	status := "accepted"
	if rejected > 0 {
		status = "partial"
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: status, Accepted: accepted, Rejected: rejected})
}
