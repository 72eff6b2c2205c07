package services

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"webpage-link-scraper/internal/models"
)

// ScraperClient performs the fetch-and-extract operation: one GET against
// the target page, transparent gzip/deflate decoding, and hyperlink
// extraction from the parsed document.
//
// Scrape never returns an error. Every network, status, or parse failure
// is converted into a failure-shaped ScrapeResult so the caller always
// receives a well-formed result value.
type ScraperClient struct {
	httpClient *http.Client
	config     ScraperConfig

	// attempts counts upstream requests made by the most recent
	// ScrapeWithRetry call, for run records and tests
	attempts int
}

// NewScraperClient creates a scraper client from the given configuration
func NewScraperClient(cfg ScraperConfig) *ScraperClient {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		IdleConnTimeout: 90 * time.Second,
	}

	if proxy := cfg.proxyURL(); proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}

	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	return &ScraperClient{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// Scrape fetches the target URL once and extracts its hyperlinks
func (c *ScraperClient) Scrape(ctx context.Context, targetURL string) *models.ScrapeResult {
	links, err := c.fetchLinks(ctx, targetURL)
	if err != nil {
		return models.NewFailureResult(err.Error())
	}
	return models.NewSuccessResult(links)
}

// ScrapeWithRetry wraps Scrape in a bounded-attempt loop. It retries only
// failure results, skips retries for client (4xx) errors, and on exhausting
// attempts returns the last structured failure rather than an error.
func (c *ScraperClient) ScrapeWithRetry(ctx context.Context, targetURL string) *models.ScrapeResult {
	var result *models.ScrapeResult
	c.attempts = 0

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		c.attempts++

		result = c.Scrape(ctx, targetURL)
		if result.Success {
			return result
		}

		if !isRetryable(result.Error) {
			log.Printf("Not retrying %s: %s", targetURL, result.Error)
			return result
		}

		if attempt < c.config.MaxRetries-1 {
			delay := c.retryDelay(attempt)
			log.Printf("Attempt %d/%d failed for %s, retrying in %v: %s",
				attempt+1, c.config.MaxRetries, targetURL, delay, result.Error)
			time.Sleep(delay)
		}
	}

	log.Printf("ERROR: failed after %d attempts for %s: %s", c.config.MaxRetries, targetURL, result.Error)
	return result
}

// Attempts returns the number of upstream requests made by the most
// recent ScrapeWithRetry call
func (c *ScraperClient) Attempts() int {
	return c.attempts
}

// fetchLinks performs a single fetch attempt
func (c *ScraperClient) fetchLinks(ctx context.Context, targetURL string) ([]models.Link, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", targetURL, err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned status %d for %s", resp.StatusCode, targetURL)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return extractLinks(doc), nil
}

// setRequestHeaders applies the fixed request header set. Accept-Encoding
// is set explicitly, so the transport's automatic decompression is off and
// decodeBody owns the content encoding.
func (c *ScraperClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")
}

// decodeBody returns a reader over the decoded response body, handling
// gzip and deflate content encodings; anything else passes through
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzipReader, nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

// extractLinks collects every anchor element into a Link record. Anchors
// without an href attribute keep an empty href, matching the source
// document rather than dropping the element.
func extractLinks(doc *goquery.Document) []models.Link {
	links := []models.Link{}

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, models.Link{
			Text: strings.TrimSpace(sel.Text()),
			Href: href,
		})
	})

	return links
}

// isRetryable reports whether a failure is worth another attempt.
// Client errors (4xx) will not change between attempts.
func isRetryable(errMessage string) bool {
	return !strings.Contains(errMessage, "returned status 4")
}

// retryDelay calculates the backoff delay for the given attempt with
// jitter, capped at the configured maximum. A backoff factor of 1 or
// below yields a fixed delay.
func (c *ScraperClient) retryDelay(attempt int) time.Duration {
	base := float64(c.config.InitialDelay)
	if c.config.BackoffFactor > 1 {
		base *= math.Pow(c.config.BackoffFactor, float64(attempt))
	}

	delay := base + rand.Float64()*0.1*float64(c.config.InitialDelay)
	if delay > float64(c.config.MaxDelay) {
		delay = float64(c.config.MaxDelay)
	}

	return time.Duration(delay)
}
