package models

import "time"

// Run status values
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Trigger type values
const (
	TriggerTypeScheduled = "scheduled"
	TriggerTypeManual    = "manual"
)

// ScrapeRun represents a single invocation of the scraper, persisted for
// run history and monitoring
type ScrapeRun struct {
	ID          string    `json:"id" dynamodbav:"id"`
	TargetURL   string    `json:"targetUrl" dynamodbav:"target_url"`
	StartedAt   time.Time `json:"startedAt" dynamodbav:"started_at"`
	CompletedAt time.Time `json:"completedAt" dynamodbav:"completed_at"`
	Duration    int64     `json:"duration" dynamodbav:"duration"` // duration in milliseconds
	Status      string    `json:"status" dynamodbav:"status"`     // completed|failed

	// Results
	LinkCount    int    `json:"linkCount" dynamodbav:"link_count"`
	ErrorMessage string `json:"errorMessage,omitempty" dynamodbav:"error_message,omitempty"`
	Attempts     int    `json:"attempts" dynamodbav:"attempts"`

	// Metadata
	TriggerType    string `json:"triggerType" dynamodbav:"trigger_type"` // scheduled|manual
	ScraperVersion string `json:"scraperVersion" dynamodbav:"scraper_version"`
}

// NewScrapeRun creates a run record from a completed scrape result
func NewScrapeRun(targetURL string, startedAt time.Time, result *ScrapeResult, attempts int, triggerType string) *ScrapeRun {
	completedAt := time.Now()

	run := &ScrapeRun{
		ID:             GenerateScrapeRunID(startedAt),
		TargetURL:      targetURL,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
		Duration:       completedAt.Sub(startedAt).Milliseconds(),
		Attempts:       attempts,
		TriggerType:    triggerType,
		ScraperVersion: ScraperVersion,
	}

	if result.Success {
		run.Status = RunStatusCompleted
		run.LinkCount = result.Count()
	} else {
		run.Status = RunStatusFailed
		run.ErrorMessage = result.Error
	}

	return run
}

// ScraperVersion identifies the scraper build that produced a run record
const ScraperVersion = "1.0.0"
