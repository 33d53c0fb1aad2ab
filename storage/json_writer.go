package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"zillow-scraper/models"
)

// WriteJSON writes the canonical listings as one JSON array, once, at
// the end of a run. Output is never streamed incrementally.
func WriteJSON(path string, listings []models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	b, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal listings: %w", err)
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}
