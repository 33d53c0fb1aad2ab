package services

import (
	"strings"
	"time"

	"zillow-scraper/models"
)

// statusActive is stamped on every record; the source channels expose
// no reliable status signal for rentals that are still listed.
const statusActive = "Active"

// Normalizer maps strategy-specific raw data into the canonical Listing
// schema. It performs no I/O; identity comes from the source URL, never
// from payload content, so asset IDs are stable across strategies.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer stamping scraped_at from the
// current UTC instant.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: func() time.Time { return time.Now().UTC() }}
}

// Normalize produces a fully-populated Listing from either raw variant.
// Every declared field is present in the result; anything the strategy
// could not supply is an explicit null, never a missing key.
func (n *Normalizer) Normalize(raw models.RawData, sourceURL string) models.Listing {
	listing := models.Listing{
		AssetID: AssetID(sourceURL),
		Meta: models.Meta{
			ScrapedAt:     n.now(),
			ListingStatus: statusActive,
		},
		MediaIndex: models.MediaIndex{
			HighResPhotos: []string{},
			FloorPlans:    []string{},
			VirtualTours:  []string{},
		},
		AmenitiesGraph: map[string]any{},
	}

	switch raw.Source {
	case models.SourceEmbeddedJSON:
		if b := raw.Building; b != nil {
			listing.CoreAttributes = models.CoreAttributes{
				PriceMonthly: b.Price,
				Sqft:         b.Sqft,
				AddressBlobs: models.AddressBlobs{Street: b.Street, City: b.City, Zip: b.Zip},
			}
			if b.Photos != nil {
				listing.MediaIndex.HighResPhotos = b.Photos
			}
			for category, groups := range b.Amenities {
				listing.AmenitiesGraph[category] = groups
			}
			listing.AgentContact.Name = b.AgentName
		}
	case models.SourceRenderedDOM:
		if d := raw.DOM; d != nil {
			listing.CoreAttributes = models.CoreAttributes{
				PriceMonthly: d.Price,
				Sqft:         d.Sqft,
				AddressBlobs: models.AddressBlobs{Street: d.Street, City: d.City, Zip: d.Zip},
			}
			if d.Photos != nil {
				listing.MediaIndex.HighResPhotos = d.Photos
			}
			if d.FloorPlans != nil {
				listing.MediaIndex.FloorPlans = d.FloorPlans
			}
			for category, items := range d.Amenities {
				listing.AmenitiesGraph[category] = items
			}
		}
	}

	return listing
}

// AssetID derives the record identity from the detail URL: the path
// segment immediately preceding the trailing slash. Stable for a given
// URL across runs and strategies.
func AssetID(sourceURL string) string {
	trimmed := strings.TrimRight(sourceURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx == -1 {
		return trimmed
	}
	return trimmed[idx+1:]
}
