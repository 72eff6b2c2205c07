package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"webpage-link-scraper/internal/models"
	"webpage-link-scraper/internal/services"
)

// ErrorBody is the 500 response body shape
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// responseHeaders returns the fixed header set for every response
func responseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

// internalErrorResponse builds the 500 envelope for an unexpected failure
func internalErrorResponse(message string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(ErrorBody{
		Error:   "Internal server error",
		Message: message,
	})
	if err != nil {
		body = []byte(`{"error":"Internal server error","message":"failed to encode error"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: 500,
		Headers:    responseHeaders(),
		Body:       string(body),
	}
}

// triggerTypeFromEvent sniffs the trigger type from the otherwise opaque
// invocation event; used for run records only
func triggerTypeFromEvent(event json.RawMessage) string {
	var probe struct {
		Source      string `json:"source"`
		TriggerType string `json:"trigger-type"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return models.TriggerTypeManual
	}

	if probe.TriggerType != "" {
		return probe.TriggerType
	}
	if probe.Source == "aws.events" {
		return models.TriggerTypeScheduled
	}
	return models.TriggerTypeManual
}

// persistResults stores the result snapshot and run record when S3 /
// DynamoDB are configured. Best-effort: a persistence failure is logged
// and never fails the invocation.
func persistResults(ctx context.Context, invocationID string, result *models.ScrapeResult, run *models.ScrapeRun) {
	if os.Getenv("S3_BUCKET_NAME") != "" {
		s3Client, err := services.NewS3Client()
		if err != nil {
			log.Printf("WARNING: [%s] failed to initialize S3 client: %v", invocationID, err)
		} else {
			if _, err := s3Client.UploadLatestResult(result); err != nil {
				log.Printf("WARNING: [%s] failed to upload latest result: %v", invocationID, err)
			}
			if _, err := s3Client.UploadScrapeRun(run); err != nil {
				log.Printf("WARNING: [%s] failed to upload scrape run: %v", invocationID, err)
			}
		}
	}

	if tableName := os.Getenv("SCRAPE_RUNS_TABLE"); tableName != "" {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Printf("WARNING: [%s] failed to load AWS config: %v", invocationID, err)
			return
		}
		store := services.NewRunStore(dynamodb.NewFromConfig(cfg), tableName)
		if err := store.PutRun(ctx, run); err != nil {
			log.Printf("WARNING: [%s] failed to store run record: %v", invocationID, err)
		}
	}
}

// HandleRequest is the Lambda entry point. The event is opaque; whatever
// triggered the invocation, the scraper runs once and the caller gets a
// 200 envelope carrying the structured result. Only a panic escaping the
// operation produces a 500.
func HandleRequest(ctx context.Context, event json.RawMessage) (response events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	invocationID := uuid.New().String()[:8]

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [%s] handler panic: %v", invocationID, r)
			response = internalErrorResponse(fmt.Sprint(r))
			err = nil
		}
	}()

	cfg := services.LoadScraperConfig()
	if verr := cfg.Validate(); verr != nil {
		log.Printf("ERROR: [%s] invalid configuration: %v", invocationID, verr)
		return internalErrorResponse(verr.Error()), nil
	}

	log.Printf("[%s] scraping %s (timeout %v, max %d attempts)",
		invocationID, cfg.TargetURL, cfg.Timeout, cfg.MaxRetries)

	client := services.NewScraperClient(cfg)
	result := client.ScrapeWithRetry(ctx, cfg.TargetURL)

	run := models.NewScrapeRun(cfg.TargetURL, start, result, client.Attempts(), triggerTypeFromEvent(event))
	persistResults(ctx, invocationID, result, run)

	body, merr := json.Marshal(result)
	if merr != nil {
		log.Printf("ERROR: [%s] failed to marshal result: %v", invocationID, merr)
		return internalErrorResponse("failed to encode result"), nil
	}

	log.Printf("[%s] completed in %dms: success=%v links=%d attempts=%d",
		invocationID, time.Since(start).Milliseconds(), result.Success, result.Count(), client.Attempts())

	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    responseHeaders(),
		Body:       string(body),
	}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
