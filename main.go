package main

import (
	"context"
	"errors"
	"os"

	"zillow-scraper/config"
	"zillow-scraper/fetcher"
	"zillow-scraper/scraper/zillow"
	"zillow-scraper/services"
	"zillow-scraper/storage"
	"zillow-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Zillow rental harvester starting ===")
	logger.Info("Config — mode: %s | strategy: %s | cap: %d | pacing: %v-%v",
		cfg.RunMode, cfg.DetailStrategy, cfg.MaxListings, cfg.MinDelay, cfg.MaxDelay)

	httpFetcher, err := fetcher.New(cfg)
	if err != nil {
		logger.Error("Failed to build fetcher: %v", err)
		os.Exit(1)
	}

	var domExt *zillow.DOMExtractor
	if cfg.DetailStrategy == config.StrategyDOM && cfg.RunMode != config.ModeCollect {
		selectors, err := zillow.LoadSelectors(cfg.SelectorsPath)
		if err != nil {
			logger.Warn("Selector override unusable, using defaults: %v", err)
		}
		session := zillow.NewSession(cfg, logger)
		defer session.Close()
		domExt = zillow.NewDOMExtractor(session, selectors, cfg.BrowserTimeout, logger)
	}

	pipeline := zillow.NewPipeline(cfg, logger, httpFetcher, domExt,
		storage.NewDebugWriter(cfg.DebugDir))

	ctx := context.Background()

	var urls []string
	switch cfg.RunMode {
	case config.ModeDetails:
		urls, err = storage.ReadURLs(cfg.URLFilePath, cfg.MaxListings)
		if err != nil {
			logger.Error("Failed to read URL artifact: %v", err)
			logger.Error("Run with RUN_MODE=collect first to generate %s", cfg.URLFilePath)
			os.Exit(1)
		}
	default:
		urls, err = pipeline.CollectURLs(ctx)
		if err != nil {
			logger.Error("URL collection failed: %v", err)
			os.Exit(1)
		}
		if err := storage.WriteURLs(cfg.URLFilePath, urls); err != nil {
			logger.Error("Failed to write URL artifact: %v", err)
			os.Exit(1)
		}
		logger.Info("Saved %d URLs to %s", len(urls), cfg.URLFilePath)
	}

	if len(urls) == 0 {
		logger.Error("No listing URLs to work with. Exiting.")
		os.Exit(1)
	}

	if cfg.RunMode == config.ModeCollect {
		logger.Info("Collect phase complete.")
		return
	}

	listings, err := pipeline.ScrapeDetails(ctx, urls)
	if err != nil {
		if errors.Is(err, zillow.ErrNoListings) {
			logger.Error("No listing details were scraped. No output written.")
		} else {
			logger.Error("Detail scrape failed: %v", err)
		}
		os.Exit(1)
	}

	if err := storage.WriteJSON(cfg.JSONOutputPath, listings); err != nil {
		logger.Error("Failed to write JSON output: %v", err)
		os.Exit(1)
	}
	logger.Info("Saved %d listings to %s", len(listings), cfg.JSONOutputPath)

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.Write(listings); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Listings stored in PostgreSQL (table: listings)")
			}
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(listings))
}
