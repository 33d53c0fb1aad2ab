package zillow

import (
	"strings"

	"zillow-scraper/models"
	"zillow-scraper/utils"
)

const (
	listResultsPath = "props.pageProps.searchPageState.cat1.searchResults.listResults"
	totalPagesPath  = "props.pageProps.searchPageState.cat1.searchList.totalPages"
)

// Collector extracts candidate listing URLs and the total page count
// from search-results pages.
type Collector struct {
	origin string
	logger *utils.Logger
}

// NewCollector creates a Collector. origin is the site origin used to
// absolutize relative detail URLs.
func NewCollector(origin string, logger *utils.Logger) *Collector {
	return &Collector{origin: strings.TrimRight(origin, "/"), logger: logger}
}

// CollectPage parses one search-results page. When the state marker or
// the expected nested paths are absent it returns an empty PageResult
// together with ErrStateMarker; callers treat that as "no usable data
// on this page" and may persist the raw content for offline inspection.
func (c *Collector) CollectPage(html string) (models.PageResult, error) {
	data, err := parseStateBlob(html)
	if err != nil {
		return models.PageResult{}, err
	}

	results, ok := search(listResultsPath, data).([]any)
	if !ok || len(results) == 0 {
		c.logger.Warn("[collector] No listResults in state blob")
		return models.PageResult{}, ErrStateMarker
	}

	totalPages := 0
	if n := intAt(totalPagesPath, data); n != nil {
		totalPages = *n
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, r := range results {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		detailURL, ok := entry["detailUrl"].(string)
		if !ok || detailURL == "" {
			continue
		}
		if !strings.HasPrefix(detailURL, "http") {
			detailURL = c.origin + detailURL
		}
		if _, dup := seen[detailURL]; dup {
			continue
		}
		seen[detailURL] = struct{}{}
		urls = append(urls, detailURL)
	}

	return models.PageResult{URLs: urls, TotalPages: totalPages}, nil
}
