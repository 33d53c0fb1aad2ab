package zillow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SelectorSet is the DOM contract of the rendered-page strategy. The
// live site's markup churns, so the set can be overridden from a YAML
// file instead of recompiling; the defaults below are the last ones
// derived against real pages.
type SelectorSet struct {
	Heading          string `yaml:"heading"`
	Price            string `yaml:"price"`
	Sqft             string `yaml:"sqft"`
	AddressPrimary   string `yaml:"address_primary"`
	AddressSecondary string `yaml:"address_secondary"`
	PhotoDialog      string `yaml:"photo_dialog"`
	PhotoDialogImgs  string `yaml:"photo_dialog_imgs"`
	AmenityHeadings  string `yaml:"amenity_headings"`
	SeeAllText       string `yaml:"see_all_text"`
	ShowMoreText     string `yaml:"show_more_text"`
}

// DefaultSelectors returns the built-in selector set.
func DefaultSelectors() SelectorSet {
	return SelectorSet{
		Heading:          `h1`,
		Price:            `span[data-test-id="price"]`,
		Sqft:             `span[data-test-id="bed-bath-sqft"]`,
		AddressPrimary:   `h1[data-test-id="address-info-title-text"]`,
		AddressSecondary: `p[data-test-id="address-info-secondary-text"]`,
		PhotoDialog:      `div[role="dialog"]`,
		PhotoDialogImgs:  `div[role="dialog"] ul li img`,
		AmenityHeadings:  `div[class*="amenity-container"] h6`,
		SeeAllText:       "See all",
		ShowMoreText:     "Show more",
	}
}

// LoadSelectors reads a YAML override file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadSelectors(path string) (SelectorSet, error) {
	set := DefaultSelectors()
	if path == "" {
		return set, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("selectors: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &set); err != nil {
		return set, fmt.Errorf("selectors: parse %q: %w", path, err)
	}
	return set, nil
}
