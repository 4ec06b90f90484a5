// Package corpus keeps the bounded rolling buffer of recently ingested
// articles that verification cross-references.
package corpus

import (
	"sync"

	"github.com/okian/sitrep/internal/domain/model"
)

// defaultCapacity bounds the buffer; older articles are trimmed first.
const defaultCapacity = 200

// Option applies a configuration option to the Buffer.
type Option func(*Buffer)

// WithCapacity overrides the maximum number of retained articles.
func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// Buffer is an append-then-trim article window, safe for concurrent
// use. Readers get an isolated snapshot, never the live slice.
type Buffer struct {
	mu       sync.RWMutex
	articles []model.RawArticle
	capacity int
}

// New creates a Buffer with configuration options.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add appends articles in arrival order and trims the oldest entries
// beyond capacity.
func (b *Buffer) Add(articles ...model.RawArticle) {
	if len(articles) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.articles = append(b.articles, articles...)
	if excess := len(b.articles) - b.capacity; excess > 0 {
		b.articles = append(b.articles[:0], b.articles[excess:]...)
	}
}

// Snapshot returns a copy of the current window, oldest first.
func (b *Buffer) Snapshot() []model.RawArticle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.RawArticle, len(b.articles))
	copy(out, b.articles)
	return out
}

// Len returns the number of retained articles.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.articles)
}
