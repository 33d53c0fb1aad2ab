package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadURLsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listing_urls.csv")
	urls := []string{
		"https://www.zillow.com/b/a/1_bb/",
		"https://www.zillow.com/b/b/2_bb/",
		"https://www.zillow.com/b/c/3_bb/",
	}

	if err := WriteURLs(path, urls); err != nil {
		t.Fatalf("WriteURLs: %v", err)
	}

	got, err := ReadURLs(path, 0)
	if err != nil {
		t.Fatalf("ReadURLs: %v", err)
	}
	if len(got) != len(urls) {
		t.Fatalf("got %d URLs, want %d", len(got), len(urls))
	}
	for i := range urls {
		if got[i] != urls[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], urls[i])
		}
	}
}

func TestReadURLsTruncatesToMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing_urls.csv")
	urls := []string{
		"https://www.zillow.com/b/a/1_bb/",
		"https://www.zillow.com/b/b/2_bb/",
		"https://www.zillow.com/b/c/3_bb/",
	}
	if err := WriteURLs(path, urls); err != nil {
		t.Fatalf("WriteURLs: %v", err)
	}

	got, err := ReadURLs(path, 2)
	if err != nil {
		t.Fatalf("ReadURLs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d URLs, want 2", len(got))
	}
}

func TestReadURLsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing_urls.csv")
	content := "https://www.zillow.com/b/a/1_bb/\n\n   \nhttps://www.zillow.com/b/b/2_bb/\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := ReadURLs(path, 0)
	if err != nil {
		t.Fatalf("ReadURLs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d URLs, want 2", len(got))
	}
}

func TestDebugWriterDumpsPageIndexedFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDebugWriter(dir)

	if err := d.DumpPage(3, "<html>raw</html>"); err != nil {
		t.Fatalf("DumpPage: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "page_3_content.html"))
	if err != nil {
		t.Fatalf("expected page-indexed dump file: %v", err)
	}
	if string(b) != "<html>raw</html>" {
		t.Errorf("dump content mismatch: %q", b)
	}
}
