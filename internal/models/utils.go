package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateScrapeRunID creates a unique ID for a scrape run
func GenerateScrapeRunID(timestamp time.Time) string {
	input := fmt.Sprintf("run|%d", timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return "run_" + hex.EncodeToString(hash[:])[:8]
}
