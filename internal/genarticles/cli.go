package genarticles

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/sitrep/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gen_articles_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the article generation tool.
func ShowHelp() {
	os.Stdout.WriteString(`SITREP Article Generation Tool
==============================

Generates synthetic conflict-news coverage and submits it to a running
SITREP instance, then reads the fused timeline back.

Usage:
  go run cmd/gen-articles/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -incidents int
        Number of incidents to simulate (default 200)
  -batch int
        Articles per POST /articles request (default 50)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated articles (default: generated_articles_TIMESTAMP.json)
  -log string
        Log file for run output (default: gen_articles_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/gen-articles/main.go

  # Simulate a heavier news day
  go run cmd/gen-articles/main.go -incidents 1000 -batch 100

  # Run against a non-default address with verbose output
  go run cmd/gen-articles/main.go -url http://localhost:8080 -verbose
`)
}
