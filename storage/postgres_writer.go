package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"zillow-scraper/models"
)

// PostgresWriter persists canonical listings to PostgreSQL. The nested
// schema sections (media, amenities, agent) are stored as JSONB so the
// explicit-null contract survives the round trip.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id             SERIAL PRIMARY KEY,
			asset_id       TEXT        UNIQUE NOT NULL,
			scraped_at     TIMESTAMPTZ NOT NULL,
			listing_status TEXT        NOT NULL,
			price_monthly  INTEGER,
			sqft           INTEGER,
			street         TEXT,
			city           TEXT,
			zip            TEXT,
			media          JSONB       NOT NULL DEFAULT '{}',
			amenities      JSONB       NOT NULL DEFAULT '{}',
			agent          JSONB       NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price_monthly);
		CREATE INDEX IF NOT EXISTS idx_listings_city  ON listings(city);
	`)
	return err
}

// Write inserts all listings one run at a time; an asset already seen
// in a previous run keeps its earlier row.
func (pw *PostgresWriter) Write(listings []models.Listing) error {
	for _, l := range listings {
		media, err := json.Marshal(l.MediaIndex)
		if err != nil {
			return fmt.Errorf("postgres: marshal media for %s: %w", l.AssetID, err)
		}
		amenities, err := json.Marshal(l.AmenitiesGraph)
		if err != nil {
			return fmt.Errorf("postgres: marshal amenities for %s: %w", l.AssetID, err)
		}
		agent, err := json.Marshal(l.AgentContact)
		if err != nil {
			return fmt.Errorf("postgres: marshal agent for %s: %w", l.AssetID, err)
		}

		_, err = pw.db.Exec(`
			INSERT INTO listings
				(asset_id, scraped_at, listing_status, price_monthly, sqft,
				 street, city, zip, media, amenities, agent)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (asset_id) DO NOTHING
		`,
			l.AssetID, l.Meta.ScrapedAt, l.Meta.ListingStatus,
			l.CoreAttributes.PriceMonthly, l.CoreAttributes.Sqft,
			l.CoreAttributes.AddressBlobs.Street,
			l.CoreAttributes.AddressBlobs.City,
			l.CoreAttributes.AddressBlobs.Zip,
			media, amenities, agent,
		)
		if err != nil {
			return fmt.Errorf("postgres: insert %s: %w", l.AssetID, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
