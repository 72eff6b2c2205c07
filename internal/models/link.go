package models

import "encoding/json"

// Link represents a single hyperlink extracted from the target page
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"` // empty string when the anchor has no href attribute
}

// ScrapeResult represents the outcome of one fetch-and-extract attempt.
// A success carries the extracted links; a failure carries a human-readable
// error description. The two shapes are mutually exclusive on the wire:
// success includes data/count and no error, failure includes error only.
type ScrapeResult struct {
	Success bool
	Data    []Link
	Error   string
}

// Count returns the number of extracted links
func (r *ScrapeResult) Count() int {
	return len(r.Data)
}

// NewSuccessResult creates a success-shaped result from extracted links
func NewSuccessResult(links []Link) *ScrapeResult {
	if links == nil {
		links = []Link{}
	}
	return &ScrapeResult{
		Success: true,
		Data:    links,
	}
}

// NewFailureResult creates a failure-shaped result with an error description
func NewFailureResult(message string) *ScrapeResult {
	return &ScrapeResult{
		Success: false,
		Error:   message,
	}
}

// successJSON and failureJSON pin the two wire shapes: count is derived
// from data and never stored, and neither shape leaks the other's fields.
type successJSON struct {
	Success bool   `json:"success"`
	Data    []Link `json:"data"`
	Count   int    `json:"count"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON serializes the result as exactly one of the two shapes
func (r ScrapeResult) MarshalJSON() ([]byte, error) {
	if r.Success {
		data := r.Data
		if data == nil {
			data = []Link{}
		}
		return json.Marshal(successJSON{
			Success: true,
			Data:    data,
			Count:   len(data),
		})
	}
	return json.Marshal(failureJSON{
		Success: false,
		Error:   r.Error,
	})
}

// UnmarshalJSON restores a result from either wire shape
func (r *ScrapeResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Success bool   `json:"success"`
		Data    []Link `json:"data"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Success = raw.Success
	r.Data = raw.Data
	r.Error = raw.Error
	return nil
}
