package genarticles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/sitrep/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete generation and verification pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting article generation run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("incidents", config.NumIncidents),
		logger.Int("batchSize", config.BatchSize),
		logger.Duration("timeout", config.Timeout),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate incident coverage
	articles, err := generateArticles(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("article generation failed: %w", err)
	}

	// Step 3: Submit articles in batches
	if err := submitArticles(ctx, config, articles, stats); err != nil {
		return fmt.Errorf("article submission failed: %w", err)
	}

	// Step 4: Wait for the batch loop to process
	logger.Get().Info(ctx, "waiting for batches to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Read the timeline back
	events, err := fetchTimeline(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("timeline fetch failed: %w", err)
	}
	logger.Get().Info(ctx, "timeline fetched",
		logger.Int("events", len(events)),
		logger.Int("verified", stats.EventsVerified))

	// Step 6: Save generated articles to file
	if err := saveArticlesToFile(ctx, config, articles); err != nil {
		logger.Get().Warn(ctx, "failed to save articles to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveArticlesToFile saves the generated articles to a JSON file.
func saveArticlesToFile(ctx context.Context, config *Config, articles []Article) error {
	if len(articles) == 0 {
		return fmt.Errorf("no articles to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_articles_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write articles to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, article := range articles {
		jsonData, err := marshalJSON(article)
		if err != nil {
			return fmt.Errorf("failed to marshal article %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write article %d: %w", i, err)
		}

		// Add comma except for last article
		if i < len(articles)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "articles saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, verifiedRate float64

	if stats.ArticlesSubmitted > 0 {
		acceptRate = float64(stats.ArticlesAccepted) / float64(stats.ArticlesSubmitted) * PercentageMultiplier
	}
	if stats.EventsOnTimeline > 0 {
		verifiedRate = float64(stats.EventsVerified) / float64(stats.EventsOnTimeline) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("incidentsGenerated", stats.IncidentsGenerated),
		logger.Int("articlesGenerated", stats.ArticlesGenerated),
		logger.Int("articlesSubmitted", stats.ArticlesSubmitted),
		logger.Int("articlesAccepted", stats.ArticlesAccepted),
		logger.Int("articlesRejected", stats.ArticlesRejected),
		logger.Int("eventsOnTimeline", stats.EventsOnTimeline),
		logger.Int("eventsVerified", stats.EventsVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("verifiedRate", verifiedRate))
}
