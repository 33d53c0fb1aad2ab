package zillow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmespath/go-jmespath"
)

// stateMarkerSelector identifies the script element Zillow embeds its
// server-computed application state in. This is a reverse-engineered,
// versionless contract belonging to the site.
const stateMarkerSelector = `script#__NEXT_DATA__[type="application/json"]`

// parseStateBlob locates the embedded JSON state blob in raw page HTML
// and unmarshals it into a loosely-typed document. Returns ErrStateMarker
// when the marker is absent or the JSON does not parse.
func parseStateBlob(html string) (any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrStateMarker, err)
	}

	sel := doc.Find(stateMarkerSelector)
	if sel.Length() == 0 {
		return nil, ErrStateMarker
	}

	var data any
	if err := json.Unmarshal([]byte(sel.First().Text()), &data); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrStateMarker, err)
	}
	return data, nil
}

// search runs a jmespath expression against the state document and
// swallows expression errors: a missing path is an expected branch here,
// not an exception.
func search(path string, data any) any {
	result, err := jmespath.Search(path, data)
	if err != nil {
		return nil
	}
	return result
}

// stringAt returns the string at path, or nil when the value is absent,
// not a string, or empty.
func stringAt(path string, data any) *string {
	v, ok := search(path, data).(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// intAt returns the whole number at path. JSON numbers decode as
// float64; anything else is treated as absent.
func intAt(path string, data any) *int {
	v, ok := search(path, data).(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}
