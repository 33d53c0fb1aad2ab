package models

import "time"

// Source identifies which extraction strategy produced a RawData value.
type Source string

const (
	SourceEmbeddedJSON Source = "embedded_json"
	SourceRenderedDOM  Source = "rendered_dom"
)

// RawBuilding is the source-shaped record produced by the embedded-JSON
// strategy. Pointer fields are nil when the source channel did not carry
// the value.
type RawBuilding struct {
	Street    *string
	City      *string
	Zip       *string
	Price     *int
	Sqft      *int
	Photos    []string
	Amenities map[string]map[string][]string
	AgentName *string
}

// RawDOM is the source-shaped record produced by the rendered-DOM strategy.
type RawDOM struct {
	Street     *string
	City       *string
	Zip        *string
	Price      *int
	Sqft       *int
	Photos     []string
	FloorPlans []string
	Amenities  map[string][]string
}

// RawData is the strategy-tagged variant handed to the normalizer.
// Exactly one of Building or DOM is non-nil, matching Source.
type RawData struct {
	Source   Source
	Building *RawBuilding
	DOM      *RawDOM
}

// Listing is the canonical output record. Every field is always present
// when marshalled; unavailable values are explicit JSON nulls, never
// missing keys — downstream consumers index by field name unconditionally.
type Listing struct {
	AssetID        string         `json:"asset_id"`
	Meta           Meta           `json:"meta"`
	CoreAttributes CoreAttributes `json:"core_attributes"`
	MediaIndex     MediaIndex     `json:"media_index"`
	// AmenitiesGraph values are map[string][]string for DOM-sourced
	// records and map[string]map[string][]string for JSON-sourced ones.
	// Both are valid shapes of the same field.
	AmenitiesGraph map[string]any `json:"amenities_graph"`
	AgentContact   AgentContact   `json:"agent_contact"`
}

// Meta carries record-level bookkeeping. ScrapedAt is stamped once at
// normalization time and never recomputed.
type Meta struct {
	ScrapedAt     time.Time `json:"scraped_at"`
	ListingStatus string    `json:"listing_status"`
}

type CoreAttributes struct {
	PriceMonthly *int         `json:"price_monthly"`
	Sqft         *int         `json:"sqft"`
	AddressBlobs AddressBlobs `json:"address_blobs"`
}

type AddressBlobs struct {
	Street *string `json:"street"`
	City   *string `json:"city"`
	Zip    *string `json:"zip"`
}

// MediaIndex sequences reflect source discovery order. They may be
// empty but are never null in the output.
type MediaIndex struct {
	HighResPhotos []string `json:"high_res_photos"`
	FloorPlans    []string `json:"floor_plans"`
	VirtualTours  []string `json:"virtual_tours"`
}

type AgentContact struct {
	Name           *string `json:"name"`
	Brokerage      *string `json:"brokerage"`
	PhoneEncrypted *string `json:"phone_encrypted"`
	PhoneRaw       *string `json:"phone_raw"`
}

// PageResult is the outcome of parsing one search-results page.
type PageResult struct {
	URLs       []string
	TotalPages int
}
