package zillow

import (
	"zillow-scraper/models"
	"zillow-scraper/utils"
)

const buildingPath = "props.pageProps.componentProps.initialReduxState.gdp.building"

// JSONExtractor is the embedded-JSON detail strategy. It reads the same
// state blob the collector uses and navigates down to the building
// record of a listing-detail page.
type JSONExtractor struct {
	logger *utils.Logger
}

func NewJSONExtractor(logger *utils.Logger) *JSONExtractor {
	return &JSONExtractor{logger: logger}
}

// Extract parses a detail page into a RawBuilding. The marker being
// absent yields ErrStateMarker; a parsed blob with no building record
// yields ErrBuildingMissing. There is never a partial result.
func (e *JSONExtractor) Extract(html string) (*models.RawBuilding, error) {
	data, err := parseStateBlob(html)
	if err != nil {
		return nil, err
	}

	building := search(buildingPath, data)
	if building == nil {
		return nil, ErrBuildingMissing
	}

	raw := &models.RawBuilding{
		Street: stringAt("address.streetAddress", building),
		City:   stringAt("address.city", building),
		Zip:    stringAt("address.zipcode", building),
		// First-unit policy: price and sqft come from the first entry
		// of the unit list, never aggregated across units.
		Price:     intAt("units[0].price", building),
		Sqft:      intAt("units[0].sqft", building),
		Photos:    extractGalleryPhotos(building),
		Amenities: extractStructuredAmenities(building),
		AgentName: stringAt("contactInfo.agentFullName", building),
	}

	return raw, nil
}

// extractGalleryPhotos walks the gallery and keeps, per photo, the last
// entry of its JPEG source list — the highest-resolution rendition.
// Photos without a JPEG source list are skipped, not substituted.
func extractGalleryPhotos(building any) []string {
	photos := []string{}
	gallery, ok := search("galleryPhotos", building).([]any)
	if !ok {
		return photos
	}
	for _, p := range gallery {
		jpegs, ok := search("mixedSources.jpeg", p).([]any)
		if !ok || len(jpegs) == 0 {
			continue
		}
		if u := stringAt("url", jpegs[len(jpegs)-1]); u != nil {
			photos = append(photos, *u)
		}
	}
	return photos
}

// extractStructuredAmenities builds the category → group → amenities
// mapping. Only entries that are themselves mappings carrying an
// amenityGroups list are included; other shapes are silently skipped.
func extractStructuredAmenities(building any) map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	structured, ok := search("structuredAmenities", building).(map[string]any)
	if !ok {
		return out
	}

	for _, section := range structured {
		sec, ok := section.(map[string]any)
		if !ok {
			continue
		}
		groups, ok := sec["amenityGroups"].([]any)
		if !ok {
			continue
		}
		title, _ := sec["title"].(string)
		category := make(map[string][]string)
		for _, g := range groups {
			group, ok := g.(map[string]any)
			if !ok {
				continue
			}
			groupTitle, _ := group["title"].(string)
			names := []string{}
			if amenities, ok := group["amenities"].([]any); ok {
				for _, a := range amenities {
					if name, ok := a.(string); ok {
						names = append(names, name)
					}
				}
			}
			category[groupTitle] = names
		}
		out[title] = category
	}
	return out
}
