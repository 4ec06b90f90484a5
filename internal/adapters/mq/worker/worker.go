// Package worker runs per-article extraction across a bounded pool.
//
// Extraction has no cross-article dependency, so one batch fans out
// over the pool and joins at a barrier before deduplication.
package worker

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/pkg/logger"
	"github.com/okian/sitrep/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
)

// Builder turns one raw article into at most one candidate event.
type Builder interface {
	Build(article model.RawArticle) (model.CandidateEvent, bool)
}

// job carries one article through the pool with its batch position, so
// results can be reassembled in arrival order.
type job struct {
	index   int
	article model.RawArticle
}

// result pairs a built candidate with its batch position.
type result struct {
	index     int
	candidate model.CandidateEvent
	kept      bool
}

// Pool fans a batch of articles out over a fixed number of extraction
// workers and joins the results in arrival order.
type Pool struct {
	workerCount int
	builder     Builder

	// Logging
	logger logger.Logger
}

// NewPool creates a new extraction pool.
func NewPool(workerCount int, builder Builder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workerCount: workerCount,
		builder:     builder,
		logger:      logger.Get().Named("extraction-pool"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return p
}

// Extract processes every article in the batch concurrently and returns
// the surviving candidates in batch arrival order. When ctx is
// cancelled mid-batch the partial results are discarded and ctx.Err()
// is returned.
func (p *Pool) Extract(ctx context.Context, articles []model.RawArticle) ([]model.CandidateEvent, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	jobs := make(chan job)
	results := make([]result, len(articles))

	var wg sync.WaitGroup
	for w := 0; w < p.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = p.process(j)
			}
		}()
	}

	cancelled := false
feed:
	for i, a := range articles {
		select {
		case jobs <- job{index: i, article: a}:
		case <-ctx.Done():
			cancelled = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled || ctx.Err() != nil {
		p.logger.Warn(ctx, "batch extraction cancelled, discarding partial results",
			logger.Int("articles", len(articles)),
		)
		metrics.RecordErrorByComponent("worker", "context_cancelled")
		return nil, ctx.Err()
	}

	candidates := make([]model.CandidateEvent, 0, len(articles))
	for _, r := range results {
		if r.kept {
			candidates = append(candidates, r.candidate)
		}
	}
	return candidates, nil
}

// process runs one article through the builder and records funnel
// metrics.
func (p *Pool) process(j job) result {
	start := time.Now()
	candidate, ok := p.builder.Build(j.article)
	latency := float64(time.Since(start).Milliseconds())

	metrics.RecordWorkerProcessingLatency(latency)
	metrics.RecordExtractionLatency(latency)
	if ok {
		metrics.RecordCandidateBuilt()
	} else {
		metrics.RecordCandidateDropped()
	}

	return result{index: j.index, candidate: candidate, kept: ok}
}
