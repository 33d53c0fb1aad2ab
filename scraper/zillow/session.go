package zillow

import (
	"context"

	"github.com/chromedp/chromedp"

	"zillow-scraper/config"
	"zillow-scraper/utils"
)

// Session owns one browser process reused across all listings. Exactly
// one tab is open at a time; each tab is created per listing and closed
// on every exit path.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	logger     *utils.Logger
}

// NewSession launches the browser with automation-hiding options.
func NewSession(cfg *config.Config, logger *utils.Logger) *Session {
	logger.Info("[session] Launching browser (headless=%v)", cfg.Headless)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless, cfg.UserAgent, cfg.ChromeBin)...,
	)

	// Suppress chromedp log noise.
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		logger:     logger,
	}
}

// NewTab opens a fresh tab. The returned cancel closes the tab and must
// run regardless of which extraction step failed.
func (s *Session) NewTab() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(s.browserCtx)
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.logger.Info("[session] Closing browser")
	for _, cancel := range s.cancels {
		cancel()
	}
}
