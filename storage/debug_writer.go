package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DebugWriter persists search-results pages that yielded zero parsed
// URLs, so schema drift can be inspected offline. A diagnostic side
// channel, not part of the primary contract.
type DebugWriter struct {
	dir string
}

func NewDebugWriter(dir string) *DebugWriter {
	return &DebugWriter{dir: dir}
}

// DumpPage writes the raw content of one search page to a page-indexed file.
func (d *DebugWriter) DumpPage(pageNum int, content string) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("debug: create dir: %w", err)
	}
	path := filepath.Join(d.dir, fmt.Sprintf("page_%d_content.html", pageNum))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("debug: write %q: %w", path, err)
	}
	return nil
}
