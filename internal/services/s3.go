package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"webpage-link-scraper/internal/models"
)

// S3Client handles snapshot and run-record uploads for scrape results
type S3Client struct {
	client     *s3.Client
	bucketName string
	region     string
}

// S3Config holds configuration for the S3 client
type S3Config struct {
	BucketName string
	Region     string
	Profile    string // AWS profile to use
}

// S3UploadResult represents the result of an S3 upload operation
type S3UploadResult struct {
	Key         string    `json:"key"`
	ETag        string    `json:"etag"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentType string    `json:"content_type"`
	PublicURL   string    `json:"public_url"`
}

// NewS3Client creates a new S3 client with AWS SDK v2
func NewS3Client() (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	bucketName := os.Getenv("S3_BUCKET_NAME")
	if bucketName == "" {
		bucketName = "webpage-link-scraper-data"
	}

	return &S3Client{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     cfg.Region,
	}, nil
}

// NewS3ClientWithConfig creates an S3 client with custom configuration
func NewS3ClientWithConfig(s3Config S3Config) (*S3Client, error) {
	var cfg aws.Config
	var err error

	if s3Config.Profile != "" {
		cfg, err = config.LoadDefaultConfig(
			context.TODO(),
			config.WithSharedConfigProfile(s3Config.Profile),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s3Config.Region != "" {
		cfg.Region = s3Config.Region
	}

	return &S3Client{
		client:     s3.NewFromConfig(cfg),
		bucketName: s3Config.BucketName,
		region:     cfg.Region,
	}, nil
}

// UploadLatestResult uploads the result as the "latest" snapshot for
// downstream consumers
func (s *S3Client) UploadLatestResult(result *models.ScrapeResult) (*S3UploadResult, error) {
	return s.uploadResult(result, "links/latest.json")
}

// UploadResultSnapshot uploads the result under a timestamp-based key
func (s *S3Client) UploadResultSnapshot(result *models.ScrapeResult) (*S3UploadResult, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	key := fmt.Sprintf("links/%s.json", timestamp)
	return s.uploadResult(result, key)
}

func (s *S3Client) uploadResult(result *models.ScrapeResult, key string) (*S3UploadResult, error) {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape result to JSON: %w", err)
	}
	return s.uploadJSON(jsonData, key, "application/json")
}

// UploadScrapeRun uploads a scrape run record to S3
func (s *S3Client) UploadScrapeRun(run *models.ScrapeRun) (*S3UploadResult, error) {
	jsonData, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape run to JSON: %w", err)
	}

	key := fmt.Sprintf("scrape-runs/%s.json", run.ID)
	return s.uploadJSON(jsonData, key, "application/json")
}

// uploadJSON is a helper method to upload JSON data to S3
func (s *S3Client) uploadJSON(data []byte, key, contentType string) (*S3UploadResult, error) {
	key = strings.TrimPrefix(key, "/")

	uploadInput := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=300"), // 5 minutes
		Metadata: map[string]string{
			"uploaded-by": "webpage-link-scraper",
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	}

	result, err := s.client.PutObject(context.TODO(), uploadInput)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &S3UploadResult{
		Key:         key,
		ETag:        strings.Trim(*result.ETag, `"`),
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
		ContentType: contentType,
		PublicURL:   s.GetPublicURL(key),
	}, nil
}

// DownloadResult downloads and parses a scrape result snapshot from S3
func (s *S3Client) DownloadResult(key string) (*models.ScrapeResult, error) {
	data, err := s.downloadJSON(key)
	if err != nil {
		return nil, err
	}

	var result models.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scrape result JSON: %w", err)
	}

	return &result, nil
}

// DownloadScrapeRun downloads a run record from S3
func (s *S3Client) DownloadScrapeRun(key string) (*models.ScrapeRun, error) {
	data, err := s.downloadJSON(key)
	if err != nil {
		return nil, err
	}

	var run models.ScrapeRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scrape run JSON: %w", err)
	}

	return &run, nil
}

func (s *S3Client) downloadJSON(key string) ([]byte, error) {
	key = strings.TrimPrefix(key, "/")

	result, err := s.client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// GetBucketName returns the configured bucket name
func (s *S3Client) GetBucketName() string {
	return s.bucketName
}

// GetRegion returns the configured AWS region
func (s *S3Client) GetRegion() string {
	return s.region
}

// GetPublicURL generates the public URL for an S3 object
func (s *S3Client) GetPublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
}
