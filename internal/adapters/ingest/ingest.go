// Package ingest converts already-fetched RSS/Atom payloads into raw
// articles for the queue. It performs no network retrieval itself.
package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/okian/sitrep/internal/domain/model"
)

// Parser converts feed payloads to articles. It is stateless apart
// from the reusable gofeed parser and safe for sequential reuse.
type Parser struct {
	feed *gofeed.Parser
}

// NewParser creates a feed parser.
func NewParser() *Parser {
	return &Parser{
		feed: gofeed.NewParser(),
	}
}

// ParseFeed reads one RSS/Atom document and returns its items as raw
// articles attributed to source. An empty source falls back to the
// feed's own title. Items without a publish timestamp get now, so the
// temporal resolver still has an anchor.
func (p *Parser) ParseFeed(r io.Reader, source string) ([]model.RawArticle, error) {
	feed, err := p.feed.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	if source == "" {
		source = feed.Title
	}

	articles := make([]model.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, model.RawArticle{
			Title:       item.Title,
			Description: item.Description,
			Body:        item.Content,
			PublishedAt: publishTime(item),
			Source:      source,
			URL:         item.Link,
		})
	}
	return articles, nil
}

func publishTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return time.Now().UTC()
}
