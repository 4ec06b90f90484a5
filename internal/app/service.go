// Package service owns the running pipeline: it buffers incoming
// articles, drives the batch loop, and exposes the timeline to the
// HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/sitrep/internal/adapters/mq/queue"
	"github.com/okian/sitrep/internal/adapters/mq/worker"
	"github.com/okian/sitrep/internal/adapters/timeline"
	"github.com/okian/sitrep/internal/domain/build"
	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/internal/pipeline"
	"github.com/okian/sitrep/pkg/logger"
	"github.com/okian/sitrep/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize     = 10000
	defaultBatchInterval = 2 * time.Second
	defaultBatchMaxSize  = 500
	defaultTimelineDSN   = ":memory:"
)

// Service implements the API dependencies for the event timeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	queue    queue.Queue
	pipeline *pipeline.Pipeline
	timeline *timeline.Store

	// Configuration
	queueSize     int
	workerCount   int
	batchInterval time.Duration
	batchMaxSize  int
	timelineDSN   string
	pipelineOpts  []pipeline.Option

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the article queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of extraction workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithBatchInterval sets the cadence of the batch loop.
func WithBatchInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.batchInterval = interval
		}
	}
}

// WithBatchMaxSize caps how many articles one batch drains.
func WithBatchMaxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchMaxSize = size
		}
	}
}

// WithTimelineDSN sets the SQLite DSN for the timeline store.
func WithTimelineDSN(dsn string) Option {
	return func(s *Service) {
		if dsn != "" {
			s.timelineDSN = dsn
		}
	}
}

// WithPipelineOptions forwards options to the pipeline built on Start.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(s *Service) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:     defaultQueueSize,
		workerCount:   runtime.NumCPU() * 2,
		batchInterval: defaultBatchInterval,
		batchMaxSize:  defaultBatchMaxSize,
		timelineDSN:   defaultTimelineDSN,
		stopCh:        make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components and launches the batch loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting event fusion service...")

	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)

	pipelineOpts := append([]pipeline.Option{
		pipeline.WithExtractor(worker.NewPool(s.workerCount, build.New())),
	}, s.pipelineOpts...)
	s.pipeline = pipeline.New(pipelineOpts...)

	store, err := timeline.New(ctx, s.timelineDSN)
	if err != nil {
		return err
	}
	s.timeline = store

	s.wg.Add(1)
	go s.runBatchLoop(ctx)

	s.started = true
	s.logger.Info(ctx, "event fusion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("batchInterval", s.batchInterval),
		logger.String("timelineDSN", s.timelineDSN),
	)

	return nil
}

// Stop drains what was already accepted and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping event fusion service...")

	// Refuse new articles, then let the loop take its final sweep.
	if s.queue != nil {
		_ = s.queue.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	if s.timeline != nil {
		_ = s.timeline.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "event fusion service stopped")
}

// Enqueue submits an article for the next processing batch. Returns
// false on backpressure or after shutdown.
func (s *Service) Enqueue(ctx context.Context, a model.RawArticle) bool {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()

	if q == nil {
		return false
	}

	ok := q.Enqueue(ctx, a)
	if ok {
		s.logger.Debug(ctx, "article enqueued",
			logger.String("title", a.Title),
			logger.String("source", a.Source),
		)
	}
	return ok
}

// ListEvents reads the persisted timeline, newest first.
func (s *Service) ListEvents(ctx context.Context, since time.Time, limit int) ([]model.VerifiedEvent, error) {
	s.mu.RLock()
	store := s.timeline
	s.mu.RUnlock()

	if store == nil {
		return nil, nil
	}
	return store.ListSince(ctx, since, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueCapacity": s.queueSize,
		"batchInterval": s.batchInterval.String(),
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["corpusSize"] = s.pipeline.Corpus().Len()

		if count, err := s.timeline.Count(ctx); err == nil {
			stats["timelineEvents"] = count
			metrics.UpdateTimelineEvents(count)
		}
	}

	return stats
}

// runBatchLoop drains the queue at a fixed cadence and commits each
// batch to the timeline.
func (s *Service) runBatchLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.batchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processOnce(ctx)
		case <-s.stopCh:
			// Final sweep so accepted articles still reach the timeline.
			s.processOnce(context.Background())
			return
		case <-ctx.Done():
			return
		}
	}
}

// processOnce drains one batch and commits it. A cancelled batch is
// discarded whole; the queue keeps anything not yet drained.
func (s *Service) processOnce(ctx context.Context) {
	batch := s.queue.Drain(ctx, s.batchMaxSize)
	if len(batch) == 0 {
		return
	}

	events, err := s.pipeline.ProcessBatch(ctx, batch)
	if err != nil {
		s.logger.Warn(ctx, "batch discarded",
			logger.Error(err),
			logger.Int("articles", len(batch)),
		)
		return
	}

	inserted, err := s.timeline.Upsert(ctx, events)
	if err != nil {
		metrics.RecordErrorByComponent("timeline", "upsert_failed")
		s.logger.Error(ctx, "timeline upsert failed", logger.Error(err))
		return
	}

	if count, err := s.timeline.Count(ctx); err == nil {
		metrics.UpdateTimelineEvents(count)
	}

	s.logger.Info(ctx, "batch committed",
		logger.Int("articles", len(batch)),
		logger.Int("events", len(events)),
		logger.Int("inserted", inserted),
	)
}
