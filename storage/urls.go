package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteURLs persists collected listing URLs, one absolute URL per line.
// This artifact bridges the collect and details phases. Intermediate
// directories are created automatically.
func WriteURLs(path string, urls []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("urls: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("urls: create file %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, u := range urls {
		if _, err := fmt.Fprintln(w, u); err != nil {
			return fmt.Errorf("urls: write line: %w", err)
		}
	}
	return w.Flush()
}

// ReadURLs loads the URL artifact, skipping blank lines and truncating
// to max entries when max > 0.
func ReadURLs(path string, max int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("urls: open %q: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
		if max > 0 && len(urls) >= max {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("urls: read %q: %w", path, err)
	}
	return urls, nil
}
