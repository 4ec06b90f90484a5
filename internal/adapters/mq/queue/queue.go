// Package queue defines the contract for buffering ingested articles
// between the HTTP/feed ingest layer and the batch processing loop.
//
// Implementations may use channels or more advanced structures. The MVP
// starts with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Article represents the payload type flowing through the queue.
// Using the model.RawArticle type for type safety.
type Article = model.RawArticle

// Queue provides non-blocking enqueue and drain semantics for the
// batch loop.
type Queue interface {
	// Enqueue adds an article to the queue.
	// Returns false if the queue is full and the article was not enqueued.
	Enqueue(ctx context.Context, a Article) bool

	// Drain removes and returns up to max queued articles in arrival
	// order, without blocking. It returns nil when the queue is empty.
	Drain(ctx context.Context, max int) []Article

	// Len returns the current number of queued articles.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new articles can be enqueued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	articles   chan Article
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the articles channel with the configured buffer size
	q.articles = make(chan Article, q.bufferSize)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an article to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Article) bool {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordQueueProcessingLatency(float64(latency))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	// Check if we're at capacity
	if len(q.articles) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.articles <- a:
		metrics.RecordQueueEnqueue()
		q.publishUtilization()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false // context cancelled
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false // queue is full
	}
}

// Drain removes up to max articles without blocking, preserving
// arrival order. The batch loop calls this once per tick.
func (q *InMemoryQueue) Drain(ctx context.Context, max int) []Article {
	if max <= 0 {
		return nil
	}

	var batch []Article
	for len(batch) < max {
		select {
		case a, ok := <-q.articles:
			if !ok {
				q.publishUtilization()
				return batch
			}
			metrics.RecordQueueDequeue()
			batch = append(batch, a)
		case <-ctx.Done():
			q.publishUtilization()
			return batch
		default:
			q.publishUtilization()
			return batch
		}
	}
	q.publishUtilization()
	return batch
}

// Len returns the current number of queued articles.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.articles)
	metrics.UpdateQueueSize(size)
	utilization := float64(size) / float64(q.capacity)
	metrics.UpdateQueueUtilization(utilization)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the articles channel to signal consumers to stop
	close(q.articles)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) publishUtilization() {
	currentSize := len(q.articles)
	metrics.UpdateQueueSize(currentSize)
	metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
}
