package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/sitrep/internal/genarticles"
)

// Default configuration constants.
const (
	defaultNumIncidents = 200
	defaultBatchSize    = 50
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		incidents  = flag.Int("incidents", defaultNumIncidents, "Number of incidents to simulate")
		batchSize  = flag.Int("batch", defaultBatchSize, "Articles per POST /articles request")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated articles (default: generated_articles_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: gen_articles_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		genarticles.ShowHelp()
		return
	}

	// Setup logging
	if err := genarticles.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &genarticles.Config{
		BaseURL:      *baseURL,
		NumIncidents: *incidents,
		BatchSize:    *batchSize,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the generation pass
	if err := genarticles.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		return
	}
}
