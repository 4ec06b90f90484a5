// Package pipeline orchestrates one article batch through extraction,
// deduplication, and verification.
package pipeline

import (
	"context"
	"time"

	"github.com/okian/sitrep/internal/adapters/corpus"
	"github.com/okian/sitrep/internal/adapters/mq/worker"
	"github.com/okian/sitrep/internal/domain/build"
	"github.com/okian/sitrep/internal/domain/dedupe"
	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/internal/domain/verify"
	"github.com/okian/sitrep/pkg/logger"
	"github.com/okian/sitrep/pkg/metrics"
)

const defaultWorkerCount = 8

// Extractor abstracts the parallel per-article extraction stage.
type Extractor interface {
	Extract(ctx context.Context, articles []model.RawArticle) ([]model.CandidateEvent, error)
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithExtractor replaces the extraction pool.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithDeduplicator replaces the clustering stage.
func WithDeduplicator(d *dedupe.Deduplicator) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.dedupe = d
		}
	}
}

// WithVerifier replaces the verification stage.
func WithVerifier(v *verify.Verifier) Option {
	return func(p *Pipeline) {
		if v != nil {
			p.verifier = v
		}
	}
}

// WithCorpus replaces the rolling article window.
func WithCorpus(c *corpus.Buffer) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.corpus = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline holds the wired stages. Each ProcessBatch call is
// independent; the only cross-batch state is the corpus window.
type Pipeline struct {
	extractor Extractor
	dedupe    *dedupe.Deduplicator
	verifier  *verify.Verifier
	corpus    *corpus.Buffer
	logger    logger.Logger
}

// New creates a Pipeline with configuration options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		dedupe:   dedupe.New(),
		verifier: verify.New(),
		corpus:   corpus.New(),
		logger:   logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = worker.NewPool(defaultWorkerCount, build.New())
	}
	return p
}

// Corpus returns the rolling article window, for callers that expose
// corpus state (stats endpoints, tests).
func (p *Pipeline) Corpus() *corpus.Buffer {
	return p.corpus
}

// ProcessBatch runs one batch end to end and returns verified events
// ordered by event time descending. The batch is atomic: a cancelled
// context discards all partial work and returns the context error. An
// empty batch yields an empty result.
func (p *Pipeline) ProcessBatch(ctx context.Context, batch []model.RawArticle) ([]model.VerifiedEvent, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	start := time.Now()

	// The corpus grows with every arriving article regardless of what
	// the batch produces; verification reads the snapshot taken here.
	p.corpus.Add(batch...)
	snapshot := p.corpus.Snapshot()
	metrics.UpdateCorpusSize(p.corpus.Len())
	for range batch {
		metrics.RecordArticleIngested()
	}

	candidates, err := p.extractor.Extract(ctx, batch)
	if err != nil {
		return nil, err
	}

	canonical := p.dedupe.Cluster(candidates)
	for _, c := range canonical {
		if len(c.MergedFrom) > 1 {
			metrics.RecordClusterMerged()
		}
	}

	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("pipeline", "context_cancelled")
		return nil, err
	}

	events := make([]model.VerifiedEvent, 0, len(canonical))
	for _, c := range canonical {
		result := p.verifier.Verify(c, snapshot)
		if result.Verified {
			metrics.RecordEventVerified()
		} else {
			metrics.RecordEventUnverified()
		}
		events = append(events, model.NewVerifiedEvent(c, result))
	}

	// A cancellation that raced the verify loop still voids the batch.
	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("pipeline", "context_cancelled")
		return nil, err
	}

	metrics.RecordBatchProcessed()
	metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))
	p.logger.Debug(ctx, "batch processed",
		logger.Int("articles", len(batch)),
		logger.Int("candidates", len(candidates)),
		logger.Int("events", len(events)),
	)
	return events, nil
}
