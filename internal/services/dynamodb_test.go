package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"webpage-link-scraper/internal/models"
)

func newTestRunStore(t *testing.T) *RunStore {
	t.Helper()

	tableName := os.Getenv("SCRAPE_RUNS_TABLE")
	if tableName == "" {
		t.Skip("Skipping DynamoDB test - SCRAPE_RUNS_TABLE not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		t.Skipf("Skipping DynamoDB test - no AWS credentials: %v", err)
	}

	return NewRunStore(dynamodb.NewFromConfig(cfg), tableName)
}

func TestRunStore_TableName(t *testing.T) {
	store := NewRunStore(nil, "scrape-runs-test")
	if store.TableName() != "scrape-runs-test" {
		t.Errorf("Expected table name scrape-runs-test, got %s", store.TableName())
	}
}

// Integration test - requires AWS credentials and an existing table
func TestRunStore_PutGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping DynamoDB integration test in short mode")
	}

	store := newTestRunStore(t)
	ctx := context.Background()

	result := models.NewSuccessResult([]models.Link{
		{Text: "Example", Href: "https://example.com/"},
	})
	run := models.NewScrapeRun("https://example.com", time.Now().Add(-time.Second), result, 1, models.TriggerTypeManual)

	if err := store.PutRun(ctx, run); err != nil {
		t.Skipf("Skipping DynamoDB integration test - put failed (table access?): %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("Failed to get stored run: %v", err)
	}

	if fetched.TargetURL != run.TargetURL {
		t.Errorf("Target URL mismatch: %s vs %s", fetched.TargetURL, run.TargetURL)
	}
	if fetched.LinkCount != 1 {
		t.Errorf("Expected link count 1, got %d", fetched.LinkCount)
	}
	if fetched.Status != models.RunStatusCompleted {
		t.Errorf("Expected status %s, got %s", models.RunStatusCompleted, fetched.Status)
	}

	runs, err := store.ListRecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		t.Error("Expected at least one run in history")
	}

	if err := store.DeleteRun(ctx, run.ID); err != nil {
		t.Errorf("Failed to delete run: %v", err)
	}
}
