package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if SITREP_CONFIG is set
//  3. env (prefix SITREP_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SITREP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SITREP_ADDR, SITREP_QUEUE_SIZE, ...
	// Map env keys like SITREP_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SITREP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sitrep_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1)", ErrInvalidConfig)
	}
	if c.MinCandidateConfidence < 0 || c.MinCandidateConfidence >= 1 {
		return fmt.Errorf("%w: min_candidate_confidence must be in [0, 1)", ErrInvalidConfig)
	}
	if c.TextSimilarity <= 0 || c.TextSimilarity > 1 {
		return fmt.Errorf("%w: text_similarity must be in (0, 1]", ErrInvalidConfig)
	}
	if c.MinSources < 1 {
		return fmt.Errorf("%w: min_sources must be at least 1", ErrInvalidConfig)
	}
	if c.VerifiedConfidence <= 0 || c.VerifiedConfidence >= 1 {
		return fmt.Errorf("%w: verified_confidence must be in (0, 1)", ErrInvalidConfig)
	}
	if c.MaxDiscrepancies < 1 {
		return fmt.Errorf("%w: max_discrepancies must be at least 1", ErrInvalidConfig)
	}
	if c.TimelineDSN == "" {
		return fmt.Errorf("%w: timeline_dsn must not be empty", ErrInvalidConfig)
	}
	return nil
}
