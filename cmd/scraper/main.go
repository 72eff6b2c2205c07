package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"webpage-link-scraper/internal/services"
)

// Local runner for the scraper, for testing outside Lambda:
//
//	go run ./cmd/scraper -url https://example.com -retries 1
func main() {
	urlFlag := flag.String("url", "", "target URL (defaults to TARGET_URL)")
	retriesFlag := flag.Int("retries", 0, "max attempts (defaults to MAX_RETRIES)")
	timeoutFlag := flag.Int("timeout", 0, "request timeout in seconds (defaults to SCRAPE_TIMEOUT_SECONDS)")
	flag.Parse()

	cfg := services.LoadScraperConfig()
	if *urlFlag != "" {
		cfg.TargetURL = *urlFlag
	}
	if *retriesFlag > 0 {
		cfg.MaxRetries = *retriesFlag
	}
	if *timeoutFlag > 0 {
		cfg.Timeout = time.Duration(*timeoutFlag) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client := services.NewScraperClient(cfg)
	result := client.ScrapeWithRetry(context.Background(), cfg.TargetURL)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(output))

	if !result.Success {
		os.Exit(1)
	}
}
