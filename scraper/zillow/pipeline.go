package zillow

import (
	"context"
	"fmt"
	"time"

	"zillow-scraper/config"
	"zillow-scraper/fetcher"
	"zillow-scraper/models"
	"zillow-scraper/services"
	"zillow-scraper/utils"
)

// PageDumper persists raw page content for offline inspection.
type PageDumper interface {
	DumpPage(pageNum int, content string) error
}

// Pipeline sequences collection, extraction and normalization. It runs
// strictly sequentially: no fetch, parse or DOM interaction overlaps
// another. A failed listing is logged and skipped; only a failed first
// search page aborts the run.
type Pipeline struct {
	cfg        *config.Config
	logger     *utils.Logger
	fetcher    fetcher.Fetcher
	collector  *Collector
	jsonExt    *JSONExtractor
	domExt     *DOMExtractor
	normalizer *services.Normalizer
	dumper     PageDumper
	retry      *utils.RetryConfig
}

// NewPipeline wires the orchestrator. domExt may be nil when the
// embedded-JSON strategy is configured.
func NewPipeline(cfg *config.Config, logger *utils.Logger, f fetcher.Fetcher, domExt *DOMExtractor, dumper PageDumper) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		fetcher:    f,
		collector:  NewCollector(cfg.SiteOrigin, logger),
		jsonExt:    NewJSONExtractor(logger),
		domExt:     domExt,
		normalizer: services.NewNormalizer(),
		dumper:     dumper,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// CollectURLs drives pagination over the search results. The first page
// is fatal on fetch failure — there is nothing to paginate from. Later
// pages are skipped on failure. Iteration stops as soon as the
// accumulated set reaches the listing cap, mid-pagination if need be.
func (p *Pipeline) CollectURLs(ctx context.Context) ([]string, error) {
	p.logger.Info("[pipeline] Fetching page 1: %s", p.cfg.BaseURL)
	html, err := p.fetcher.Fetch(ctx, p.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("first search page: %w", err)
	}

	set := utils.NewURLSet()
	totalPages := p.collectInto(set, 1, html)

	for pageNum := 2; pageNum <= totalPages && pageNum <= p.cfg.MaxPages; pageNum++ {
		if set.Size() >= p.cfg.MaxListings {
			p.logger.Info("[pipeline] Collected %d URLs — cap %d reached, stopping pagination",
				set.Size(), p.cfg.MaxListings)
			break
		}

		utils.RandomDelay(p.cfg.MinDelay, p.cfg.MaxDelay)

		pageURL := fmt.Sprintf("%s%d_p/", p.cfg.BaseURL, pageNum)
		p.logger.Info("[pipeline] Fetching page %d: %s", pageNum, pageURL)

		html, err := p.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			p.logger.Error("[pipeline] Page %d fetch failed, skipping: %v", pageNum, err)
			continue
		}
		p.collectInto(set, pageNum, html)
	}

	urls := set.Slice()
	if len(urls) > p.cfg.MaxListings {
		urls = urls[:p.cfg.MaxListings]
	}
	p.logger.Info("[pipeline] Collected %d unique listing URLs", len(urls))
	return urls, nil
}

// collectInto parses one search page into the accumulator and returns
// the page count read from it. A page yielding no usable data is dumped
// for offline inspection and contributes nothing.
func (p *Pipeline) collectInto(set *utils.URLSet, pageNum int, html string) int {
	result, err := p.collector.CollectPage(html)
	if err != nil {
		p.logger.Warn("[pipeline] No URLs on page %d (%v) — saving content for inspection", pageNum, err)
		if dumpErr := p.dumper.DumpPage(pageNum, html); dumpErr != nil {
			p.logger.Error("[pipeline] Debug dump failed: %v", dumpErr)
		}
		return 0
	}

	added := 0
	for _, u := range result.URLs {
		if set.Add(u) {
			added++
		}
	}
	p.logger.Info("[pipeline] Page %d: %d URLs (%d new)", pageNum, len(result.URLs), added)
	return result.TotalPages
}

// ScrapeDetails extracts and normalizes each listing URL in order, with
// jittered pacing between successive fetches. One bad listing never
// aborts the run; a run with zero usable listings ends in ErrNoListings
// and no output artifact.
func (p *Pipeline) ScrapeDetails(ctx context.Context, urls []string) ([]models.Listing, error) {
	if len(urls) > p.cfg.MaxListings {
		urls = urls[:p.cfg.MaxListings]
	}

	var listings []models.Listing
	for i, u := range urls {
		if i > 0 {
			utils.RandomDelay(p.cfg.MinDelay, p.cfg.MaxDelay)
		}

		p.logger.Info("[pipeline] Scraping %d/%d: %s", i+1, len(urls), u)
		raw, err := p.extractDetail(ctx, u)
		if err != nil {
			p.logger.Error("[pipeline] Listing failed, skipping %s: %v", u, err)
			continue
		}

		listings = append(listings, p.normalizer.Normalize(*raw, u))
	}

	if len(listings) == 0 {
		return nil, ErrNoListings
	}
	p.logger.Info("[pipeline] Normalized %d listings", len(listings))
	return listings, nil
}

// extractDetail dispatches to the configured strategy and tags the raw
// result so the normalizer can discriminate.
func (p *Pipeline) extractDetail(ctx context.Context, url string) (*models.RawData, error) {
	if p.cfg.DetailStrategy == config.StrategyDOM {
		if p.domExt == nil {
			return nil, fmt.Errorf("dom strategy configured but no browser session")
		}
		var raw *models.RawDOM
		err := p.retry.Do("dom-extract", func() error {
			var e error
			raw, e = p.domExt.Extract(url)
			return e
		})
		if err != nil {
			return nil, err
		}
		return &models.RawData{Source: models.SourceRenderedDOM, DOM: raw}, nil
	}

	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	building, err := p.jsonExt.Extract(html)
	if err != nil {
		return nil, err
	}
	return &models.RawData{Source: models.SourceEmbeddedJSON, Building: building}, nil
}
