// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Enqueue pushes an article for batch processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, a model.RawArticle) bool

	// ListEvents reads the persisted timeline, newest first.
	ListEvents(ctx context.Context, since time.Time, limit int) ([]model.VerifiedEvent, error)
}

// FeedParser converts a raw RSS/Atom payload into articles.
type FeedParser interface {
	ParseFeed(r io.Reader, source string) ([]model.RawArticle, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	articlesHandler *ArticlesHandler
	eventsHandler   *EventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, feeds FeedParser, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		articlesHandler: NewArticlesHandler(deps, feeds),
		eventsHandler:   NewEventsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/articles", MetricsMiddleware(s.articlesHandler.HandlePostArticles, "articles"))
	mux.HandleFunc("/feeds", MetricsMiddleware(s.articlesHandler.HandlePostFeed, "feeds"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
}

// articleRequest mirrors the request schema for POST /articles.
type articleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Source      string `json:"source,omitempty"`
	URL         string `json:"url,omitempty"`
}

func (a articleRequest) validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("missing title")
	}
	if a.PublishedAt != "" {
		if _, err := time.Parse(time.RFC3339, a.PublishedAt); err != nil {
			return errors.New("invalid published_at; must be RFC3339")
		}
	}
	return nil
}

// toModel applies the degrade-never-fail defaults: a missing publish
// time anchors to now, a blank source stays blank and reads as Unknown
// downstream.
func (a articleRequest) toModel() model.RawArticle {
	publishedAt := time.Now().UTC()
	if a.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			publishedAt = t.UTC()
		}
	}
	return model.RawArticle{
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Body,
		PublishedAt: publishedAt,
		Source:      a.Source,
		URL:         a.URL,
	}
}

type ackResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
