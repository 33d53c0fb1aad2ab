package zillow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"zillow-scraper/config"
	"zillow-scraper/utils"
)

type fakeFetcher struct {
	pages map[string]string
	fails map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if err, ok := f.fails[url]; ok {
		return "", err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: no fixture", url)
	}
	return html, nil
}

type fakeDumper struct {
	dumped []int
}

func (d *fakeDumper) DumpPage(pageNum int, _ string) error {
	d.dumped = append(d.dumped, pageNum)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:        "https://www.zillow.com/seattle-wa/rentals/",
		SiteOrigin:     "https://www.zillow.com",
		MaxListings:    20,
		MaxPages:       20,
		DetailStrategy: config.StrategyJSON,
		MaxRetries:     1,
	}
}

func listingURL(n int) string {
	return fmt.Sprintf("https://www.zillow.com/b/apartments-%d/%d_bb/", n, n)
}

func TestCollectURLsEnforcesCap(t *testing.T) {
	cfg := testConfig()

	var page1URLs, page2URLs []string
	for i := 1; i <= 15; i++ {
		page1URLs = append(page1URLs, listingURL(i))
	}
	// 5 repeats of page 1 plus 10 new: 25 unique across both pages.
	for i := 11; i <= 25; i++ {
		page2URLs = append(page2URLs, listingURL(i))
	}

	f := &fakeFetcher{pages: map[string]string{
		cfg.BaseURL:          searchPageHTML(t, page1URLs, 2),
		cfg.BaseURL + "2_p/": searchPageHTML(t, page2URLs, 2),
	}}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	urls, err := p.CollectURLs(context.Background())
	if err != nil {
		t.Fatalf("CollectURLs returned error: %v", err)
	}

	if len(urls) != 20 {
		t.Fatalf("got %d URLs, want exactly the cap of 20", len(urls))
	}
	seen := make(map[string]struct{})
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			t.Errorf("duplicate URL in result: %s", u)
		}
		seen[u] = struct{}{}
	}
}

func TestCollectURLsStopsPaginationOnceCapReached(t *testing.T) {
	cfg := testConfig()
	cfg.MaxListings = 10

	var page1URLs []string
	for i := 1; i <= 15; i++ {
		page1URLs = append(page1URLs, listingURL(i))
	}

	// Page 2 has no fixture: fetching it would fail the test via the
	// skip path, so a clean 10-entry result proves it was never fetched.
	f := &fakeFetcher{
		pages: map[string]string{cfg.BaseURL: searchPageHTML(t, page1URLs, 3)},
		fails: map[string]error{cfg.BaseURL + "2_p/": errors.New("must not be fetched")},
	}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	urls, err := p.CollectURLs(context.Background())
	if err != nil {
		t.Fatalf("CollectURLs returned error: %v", err)
	}
	if len(urls) != 10 {
		t.Fatalf("got %d URLs, want 10", len(urls))
	}
}

func TestCollectURLsFirstPageFailureIsFatal(t *testing.T) {
	cfg := testConfig()
	f := &fakeFetcher{fails: map[string]error{cfg.BaseURL: errors.New("proxy timeout")}}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	if _, err := p.CollectURLs(context.Background()); err == nil {
		t.Fatal("expected error when the first search page cannot be fetched")
	}
}

func TestCollectURLsLaterPageFailureIsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.MaxListings = 30

	var page1URLs, page3URLs []string
	for i := 1; i <= 5; i++ {
		page1URLs = append(page1URLs, listingURL(i))
	}
	for i := 6; i <= 10; i++ {
		page3URLs = append(page3URLs, listingURL(i))
	}

	f := &fakeFetcher{
		pages: map[string]string{
			cfg.BaseURL:          searchPageHTML(t, page1URLs, 3),
			cfg.BaseURL + "3_p/": searchPageHTML(t, page3URLs, 3),
		},
		fails: map[string]error{cfg.BaseURL + "2_p/": errors.New("proxy timeout")},
	}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	urls, err := p.CollectURLs(context.Background())
	if err != nil {
		t.Fatalf("CollectURLs returned error: %v", err)
	}
	if len(urls) != 10 {
		t.Fatalf("got %d URLs, want 10 (page 2 skipped, page 3 still collected)", len(urls))
	}
}

func TestCollectURLsDumpsUnparsablePages(t *testing.T) {
	cfg := testConfig()
	f := &fakeFetcher{pages: map[string]string{
		cfg.BaseURL: `<html><body>no embedded state here</body></html>`,
	}}
	dumper := &fakeDumper{}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, dumper)
	urls, err := p.CollectURLs(context.Background())
	if err != nil {
		t.Fatalf("an unparsable first page is not a fetch failure: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("got %d URLs, want 0", len(urls))
	}
	if len(dumper.dumped) != 1 || dumper.dumped[0] != 1 {
		t.Errorf("expected page 1 to be dumped for inspection, got %v", dumper.dumped)
	}
}

func TestScrapeDetailsSkipsFailedListings(t *testing.T) {
	cfg := testConfig()

	goodBuilding := map[string]any{
		"units": []any{map[string]any{"price": 1800.0, "sqft": 500.0}},
	}

	u1, u2, u3 := listingURL(1), listingURL(2), listingURL(3)
	f := &fakeFetcher{pages: map[string]string{
		u1: detailPageHTML(t, goodBuilding),
		u2: detailPageHTML(t, nil), // state blob present, building gone
		u3: detailPageHTML(t, goodBuilding),
	}}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	listings, err := p.ScrapeDetails(context.Background(), []string{u1, u2, u3})
	if err != nil {
		t.Fatalf("ScrapeDetails returned error: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2 (removed listing skipped)", len(listings))
	}
	if listings[0].AssetID != "1_bb" || listings[1].AssetID != "3_bb" {
		t.Errorf("unexpected asset ids: %s, %s", listings[0].AssetID, listings[1].AssetID)
	}
}

func TestScrapeDetailsEmptyRunIsTerminal(t *testing.T) {
	cfg := testConfig()
	f := &fakeFetcher{fails: map[string]error{
		listingURL(1): errors.New("timeout"),
		listingURL(2): errors.New("timeout"),
	}}

	p := NewPipeline(cfg, utils.NewLogger(), f, nil, &fakeDumper{})
	_, err := p.ScrapeDetails(context.Background(), []string{listingURL(1), listingURL(2)})
	if !errors.Is(err, ErrNoListings) {
		t.Fatalf("got error %v, want ErrNoListings", err)
	}
}

func TestScrapeDetailsTruncatesToCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxListings = 2

	building := map[string]any{"units": []any{map[string]any{"price": 1500.0}}}
	pages := make(map[string]string)
	var urls []string
	for i := 1; i <= 5; i++ {
		u := listingURL(i)
		urls = append(urls, u)
		pages[u] = detailPageHTML(t, building)
	}

	p := NewPipeline(cfg, utils.NewLogger(), &fakeFetcher{pages: pages}, nil, &fakeDumper{})
	listings, err := p.ScrapeDetails(context.Background(), urls)
	if err != nil {
		t.Fatalf("ScrapeDetails returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want the cap of 2", len(listings))
	}
}
