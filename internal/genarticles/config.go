package genarticles

import "time"

// Config holds configuration for the article generation run
type Config struct {
	BaseURL      string        // Base URL of the service
	NumIncidents int           // Number of incidents to simulate
	BatchSize    int           // Articles per POST /articles request
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for generated articles
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// Article mirrors the POST /articles request schema
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

// TimelineEvent is the subset of the GET /events response the run inspects
type TimelineEvent struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Severity string   `json:"severity"`
	Verified bool     `json:"verified"`
	Sources  []string `json:"sources"`
}

// AckResponse represents the response from article submission
type AckResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Stats holds run statistics
type Stats struct {
	IncidentsGenerated int
	ArticlesGenerated  int
	ArticlesSubmitted  int
	ArticlesAccepted   int
	ArticlesRejected   int
	EventsOnTimeline   int
	EventsVerified     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
