package services

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ScraperConfig holds the configuration for the fetch-and-extract operation.
// All values come from the environment with code defaults; nothing is
// validated beyond direct substitution into the request.
type ScraperConfig struct {
	TargetURL string
	Timeout   time.Duration
	UserAgent string

	// Proxy credentials, all three independent; proxy is only applied
	// when ProxyHost is set
	ProxyUsername string
	ProxyPassword string
	ProxyHost     string // host:port

	// Retry behavior
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultScraperConfig returns the built-in defaults
func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		TargetURL:     "https://example.com",
		Timeout:       30 * time.Second,
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MaxRetries:    3,
		InitialDelay:  3 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// LoadScraperConfig reads scraper configuration from the environment,
// falling back to defaults for anything unset
func LoadScraperConfig() ScraperConfig {
	cfg := DefaultScraperConfig()

	if v := os.Getenv("TARGET_URL"); v != "" {
		cfg.TargetURL = v
	}
	if v := os.Getenv("SCRAPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SCRAPE_TIMEOUT_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("MAX_RETRIES"); v != "" {
		if retries, err := strconv.Atoi(v); err == nil && retries > 0 {
			cfg.MaxRetries = retries
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.InitialDelay = time.Duration(seconds) * time.Second
		}
	}

	cfg.ProxyUsername = os.Getenv("PROXY_USERNAME")
	cfg.ProxyPassword = os.Getenv("PROXY_PASSWORD")
	cfg.ProxyHost = os.Getenv("PROXY_HOST")

	return cfg
}

// proxyURL builds the outbound proxy URL from the three credential values,
// or nil when no proxy host is configured
func (c ScraperConfig) proxyURL() *url.URL {
	if c.ProxyHost == "" {
		return nil
	}

	proxy := &url.URL{
		Scheme: "http",
		Host:   c.ProxyHost,
	}
	if c.ProxyUsername != "" {
		proxy.User = url.UserPassword(c.ProxyUsername, c.ProxyPassword)
	}
	return proxy
}

// Validate checks the parts of the configuration the scraper depends on
func (c ScraperConfig) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target URL cannot be empty")
	}
	if _, err := url.ParseRequestURI(c.TargetURL); err != nil {
		return fmt.Errorf("invalid target URL %q: %w", c.TargetURL, err)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	return nil
}
