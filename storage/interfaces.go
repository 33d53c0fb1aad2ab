package storage

import "zillow-scraper/models"

// ListingWriter is the interface any listing persistence backend must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}
