// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory article queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of extraction workers.
	WorkerCount int `koanf:"worker_count"`

	// BatchIntervalMS sets the batch loop cadence in milliseconds.
	BatchIntervalMS int `koanf:"batch_interval_ms"`

	// BatchMaxSize caps how many articles one batch drains.
	BatchMaxSize int `koanf:"batch_max_size"`

	// SimilarityThreshold is the clustering cutoff; candidates merge
	// only when their similarity strictly exceeds it.
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// MinCandidateConfidence drops candidates at or below this value.
	MinCandidateConfidence float64 `koanf:"min_candidate_confidence"`

	// MinSources is the distinct-source floor for verification.
	MinSources int `koanf:"min_sources"`

	// CorpusSize bounds the rolling verification corpus.
	CorpusSize int `koanf:"corpus_size"`

	// ClaimWindowHours bounds how far a corroborating claim may sit
	// from the event time.
	ClaimWindowHours int `koanf:"claim_window_hours"`

	// TextSimilarity is the word-overlap floor for relating a corpus
	// article to an event.
	TextSimilarity float64 `koanf:"text_similarity"`

	// VerifiedConfidence is the confidence an event must exceed to
	// count as verified.
	VerifiedConfidence float64 `koanf:"verified_confidence"`

	// MaxDiscrepancies is the discrepancy count at which an event can
	// no longer be verified.
	MaxDiscrepancies int `koanf:"max_discrepancies"`

	// TimelineDSN is the SQLite DSN backing the event timeline.
	TimelineDSN string `koanf:"timeline_dsn"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		BatchIntervalMS:        2000,
		BatchMaxSize:           500,
		SimilarityThreshold:    0.7,
		MinCandidateConfidence: 0.5,
		MinSources:             2,
		CorpusSize:             200,
		ClaimWindowHours:       48,
		TextSimilarity:         0.4,
		VerifiedConfidence:     0.7,
		MaxDiscrepancies:       2,
		TimelineDSN:            "sitrep.db",
	}
	return c
}
