// Package model contains domain models passed between pipeline stages.
package model

import (
	"strings"
	"time"
)

// RawArticle is an already-fetched news article supplied by the ingestion
// layer. It is immutable once handed to the pipeline; missing optional
// fields are empty strings, never errors.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
}

// Text returns the searchable text of the article: title, description and
// body joined with spaces. Empty parts are skipped.
func (a RawArticle) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Title, a.Description, a.Body} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SourceName returns the article source, substituting "Unknown" when the
// ingestion layer supplied none.
func (a RawArticle) SourceName() string {
	if strings.TrimSpace(a.Source) == "" {
		return "Unknown"
	}
	return a.Source
}
