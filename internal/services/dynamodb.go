package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"webpage-link-scraper/internal/models"
)

// RunStore persists scrape run history in DynamoDB
type RunStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewRunStore creates a run store backed by the given table
func NewRunStore(client *dynamodb.Client, tableName string) *RunStore {
	return &RunStore{
		client:    client,
		tableName: tableName,
	}
}

// PutRun stores a scrape run record
func (s *RunStore) PutRun(ctx context.Context, run *models.ScrapeRun) error {
	item, err := attributevalue.MarshalMap(run)
	if err != nil {
		return fmt.Errorf("failed to marshal scrape run: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store scrape run: %w", err)
	}

	return nil
}

// GetRun retrieves a scrape run by ID
func (s *RunStore) GetRun(ctx context.Context, id string) (*models.ScrapeRun, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get scrape run: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("scrape run %s not found", id)
	}

	var run models.ScrapeRun
	if err := attributevalue.UnmarshalMap(result.Item, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scrape run: %w", err)
	}

	return &run, nil
}

// ListRecentRuns returns up to limit run records, newest first. Run
// history stays small (one record per invocation), so a scan is enough.
func (s *RunStore) ListRecentRuns(ctx context.Context, limit int32) ([]models.ScrapeRun, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
		Limit:     aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape runs: %w", err)
	}

	runs := make([]models.ScrapeRun, 0, len(result.Items))
	for _, item := range result.Items {
		var run models.ScrapeRun
		if err := attributevalue.UnmarshalMap(item, &run); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scrape run: %w", err)
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

// DeleteRun removes a run record by ID
func (s *RunStore) DeleteRun(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete scrape run: %w", err)
	}

	return nil
}

// TableName returns the configured table name
func (s *RunStore) TableName() string {
	return s.tableName
}
