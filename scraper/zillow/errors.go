package zillow

import "errors"

var (
	// ErrStateMarker means the embedded application-state blob was
	// absent, unparsable, or missing an expected nested path. The page
	// carried no usable server-rendered data.
	ErrStateMarker = errors.New("zillow: __NEXT_DATA__ state blob not found")

	// ErrBuildingMissing means the state blob parsed fine but held no
	// building record — the listing was removed or the site schema
	// drifted. Kept distinct from ErrStateMarker so callers can tell
	// malformed pages from legitimately-gone listings.
	ErrBuildingMissing = errors.New("zillow: building record missing from state blob")

	// ErrNoListings is the terminal condition for a run that produced
	// zero usable listings. No output artifact is written.
	ErrNoListings = errors.New("zillow: run produced no usable listings")
)
