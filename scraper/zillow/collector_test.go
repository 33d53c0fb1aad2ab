package zillow

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"zillow-scraper/utils"
)

func searchPageHTML(t *testing.T, detailURLs []string, totalPages int) string {
	t.Helper()

	results := make([]map[string]any, 0, len(detailURLs))
	for _, u := range detailURLs {
		results = append(results, map[string]any{"detailUrl": u})
	}

	state := map[string]any{
		"props": map[string]any{
			"pageProps": map[string]any{
				"searchPageState": map[string]any{
					"cat1": map[string]any{
						"searchResults": map[string]any{"listResults": results},
						"searchList":    map[string]any{"totalPages": totalPages},
					},
				},
			},
		},
	}

	blob, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state blob: %v", err)
	}

	return fmt.Sprintf(
		`<html><body><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`,
		blob)
}

func TestCollectPageExtractsDistinctAbsoluteURLs(t *testing.T) {
	c := NewCollector("https://www.zillow.com", utils.NewLogger())

	html := searchPageHTML(t, []string{
		"https://www.zillow.com/b/one-apartments-seattle-wa/1_bb/",
		"/b/two-apartments-seattle-wa/2_bb/",
		"https://www.zillow.com/b/three-apartments-seattle-wa/3_bb/",
	}, 1)

	result, err := c.CollectPage(html)
	if err != nil {
		t.Fatalf("CollectPage returned error: %v", err)
	}

	if len(result.URLs) != 3 {
		t.Fatalf("got %d URLs, want 3", len(result.URLs))
	}
	if result.TotalPages != 1 {
		t.Errorf("total pages: got %d, want 1", result.TotalPages)
	}

	want := "https://www.zillow.com/b/two-apartments-seattle-wa/2_bb/"
	if result.URLs[1] != want {
		t.Errorf("relative URL not absolutized: got %q, want %q", result.URLs[1], want)
	}
}

func TestCollectPageCollapsesDuplicates(t *testing.T) {
	c := NewCollector("https://www.zillow.com", utils.NewLogger())

	html := searchPageHTML(t, []string{
		"/b/dup-apartments/9_bb/",
		"https://www.zillow.com/b/dup-apartments/9_bb/",
		"/b/other-apartments/8_bb/",
	}, 4)

	result, err := c.CollectPage(html)
	if err != nil {
		t.Fatalf("CollectPage returned error: %v", err)
	}
	if len(result.URLs) != 2 {
		t.Errorf("got %d URLs after dedup, want 2", len(result.URLs))
	}
	if result.TotalPages != 4 {
		t.Errorf("total pages: got %d, want 4", result.TotalPages)
	}
}

func TestCollectPageMissingMarker(t *testing.T) {
	c := NewCollector("https://www.zillow.com", utils.NewLogger())

	result, err := c.CollectPage(`<html><body><p>client-rendered page</p></body></html>`)
	if !errors.Is(err, ErrStateMarker) {
		t.Fatalf("got error %v, want ErrStateMarker", err)
	}
	if len(result.URLs) != 0 || result.TotalPages != 0 {
		t.Errorf("expected empty PageResult, got %+v", result)
	}
}

func TestCollectPageMissingResultsPath(t *testing.T) {
	c := NewCollector("https://www.zillow.com", utils.NewLogger())

	html := `<html><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}}}</script></html>`
	_, err := c.CollectPage(html)
	if !errors.Is(err, ErrStateMarker) {
		t.Fatalf("got error %v, want ErrStateMarker", err)
	}
}

func TestCollectPageUnparsableBlob(t *testing.T) {
	c := NewCollector("https://www.zillow.com", utils.NewLogger())

	html := `<html><script id="__NEXT_DATA__" type="application/json">{not json</script></html>`
	_, err := c.CollectPage(html)
	if !errors.Is(err, ErrStateMarker) {
		t.Fatalf("got error %v, want ErrStateMarker", err)
	}
}
