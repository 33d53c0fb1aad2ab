package zillow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"zillow-scraper/models"
	"zillow-scraper/utils"
)

const (
	navigationTimeout = 10 * time.Second
	overlayTimeout    = 5 * time.Second
	scrollSettle      = 500 * time.Millisecond
	maxScrollAttempts = 10
)

// DOMExtractor is the rendered-page detail strategy. It drives a live
// tab bound to the shared browser session; every sub-extraction is
// independently fault-tolerant, so a missing element degrades only the
// field it feeds.
type DOMExtractor struct {
	session *Session
	sel     SelectorSet
	timeout time.Duration
	logger  *utils.Logger
}

func NewDOMExtractor(session *Session, sel SelectorSet, timeout time.Duration, logger *utils.Logger) *DOMExtractor {
	return &DOMExtractor{session: session, sel: sel, timeout: timeout, logger: logger}
}

// Extract loads the listing URL in a fresh tab and scrapes it into a
// RawDOM. Only a navigation failure is fatal for the URL; the tab is
// closed on every exit path.
func (e *DOMExtractor) Extract(url string) (*models.RawDOM, error) {
	tabCtx, closeTab := e.session.NewTab()
	defer closeTab()

	ctx, cancelTimeout := context.WithTimeout(tabCtx, e.timeout)
	defer cancelTimeout()

	navCtx, cancelNav := context.WithTimeout(ctx, navigationTimeout)
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		utils.HideWebDriver(),
		chromedp.WaitVisible(e.sel.Heading, chromedp.ByQuery),
	)
	cancelNav()
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	raw := &models.RawDOM{
		Photos:     []string{},
		FloorPlans: []string{},
		Amenities:  map[string][]string{},
	}

	e.extractCore(ctx, raw)
	raw.Photos, raw.FloorPlans = e.extractMedia(ctx)
	raw.Amenities = e.extractAmenities(ctx)

	return raw, nil
}

// extractCore reads price, square footage and the address lines. Each
// target degrades to nil on a missing or unparsable element.
func (e *DOMExtractor) extractCore(ctx context.Context, raw *models.RawDOM) {
	type coreData struct {
		Price     string `json:"price"`
		Sqft      string `json:"sqft"`
		Street    string `json:"street"`
		Secondary string `json:"secondary"`
	}

	js := fmt.Sprintf(`
		(function() {
			var text = function(sel) {
				var el = document.querySelector(sel);
				return el ? (el.textContent || '').trim() : '';
			};
			return {
				price:     text(%q),
				sqft:      text(%q),
				street:    text(%q),
				secondary: text(%q)
			};
		})()
	`, e.sel.Price, e.sel.Sqft, e.sel.AddressPrimary, e.sel.AddressSecondary)

	var core coreData
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &core)); err != nil {
		e.logger.Warn("[dom] Core field extraction failed: %v", err)
		return
	}

	raw.Price = digitsToInt(core.Price)
	raw.Sqft = digitsToInt(core.Sqft)
	if core.Street != "" {
		street := core.Street
		raw.Street = &street
	}
	raw.City, raw.Zip = splitSecondaryAddress(core.Secondary)
}

// extractMedia opens the "see all photos" overlay, scrolls its inner
// container to hydrate lazy-loaded images, and classifies every image
// by its alt text. Any failure returns empty sequences instead of
// failing the record.
func (e *DOMExtractor) extractMedia(ctx context.Context) ([]string, []string) {
	photos, plans := []string{}, []string{}

	var opened bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(jsClickButtonByText(e.sel.SeeAllText), &opened)); err != nil || !opened {
		e.logger.Debug("[dom] Photo overlay not available")
		return photos, plans
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, overlayTimeout)
	err := chromedp.Run(waitCtx, chromedp.WaitVisible(e.sel.PhotoDialog, chromedp.ByQuery))
	cancelWait()
	if err != nil {
		e.logger.Debug("[dom] Photo overlay did not appear: %v", err)
		return photos, plans
	}

	// Scroll the overlay's container, not the window, so the lazy
	// loader materializes every image.
	scrollJS := fmt.Sprintf(`(function() {
		var dialog = document.querySelector(%q);
		if (dialog) dialog.scrollTop += 1000;
	})()`, e.sel.PhotoDialog)

	for i := 0; i < maxScrollAttempts; i++ {
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(scrollJS, nil),
			chromedp.Sleep(scrollSettle),
		); err != nil {
			e.logger.Debug("[dom] Overlay scroll aborted: %v", err)
			break
		}
	}

	type imgData struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	}
	var imgs []imgData

	collectJS := fmt.Sprintf(`
		Array.from(document.querySelectorAll(%q)).map(function(img) {
			return {
				src: img.getAttribute('src') || '',
				alt: img.getAttribute('alt') || ''
			};
		})
	`, e.sel.PhotoDialogImgs)

	if err := chromedp.Run(ctx, chromedp.Evaluate(collectJS, &imgs)); err != nil {
		e.logger.Warn("[dom] Image collection failed: %v", err)
		return photos, plans
	}

	for _, img := range imgs {
		if img.Src == "" {
			continue
		}
		alt := strings.ToLower(img.Alt)
		if strings.Contains(alt, "floor") || strings.Contains(alt, "plan") {
			plans = append(plans, img.Src)
		} else {
			photos = append(photos, img.Src)
		}
	}
	return photos, plans
}

// extractAmenities expands the truncated facts section (best effort)
// and walks each heading's immediately-following sibling list. A
// failure anywhere here aborts only the amenities field.
func (e *DOMExtractor) extractAmenities(ctx context.Context) map[string][]string {
	out := map[string][]string{}

	var expanded bool
	_ = chromedp.Run(ctx, chromedp.Evaluate(jsClickButtonByText(e.sel.ShowMoreText), &expanded))

	type section struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
	}
	var sections []section

	js := fmt.Sprintf(`
		(function() {
			var out = [];
			var headings = document.querySelectorAll(%q);
			for (var i = 0; i < headings.length; i++) {
				var sib = headings[i].nextElementSibling;
				while (sib && sib.tagName !== 'UL') sib = sib.nextElementSibling;
				if (!sib) continue;
				var items = Array.from(sib.querySelectorAll('li'))
					.map(function(li) { return (li.textContent || '').trim(); })
					.filter(Boolean);
				out.push({ title: (headings[i].textContent || '').trim(), items: items });
			}
			return out;
		})()
	`, e.sel.AmenityHeadings)

	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &sections)); err != nil {
		e.logger.Warn("[dom] Amenity extraction failed: %v", err)
		return out
	}

	for _, s := range sections {
		if s.Title != "" {
			out[s.Title] = s.Items
		}
	}
	return out
}

// jsClickButtonByText finds the first button whose text contains the
// given label and clicks it, reporting whether a click happened.
func jsClickButtonByText(label string) string {
	return fmt.Sprintf(`(function() {
		var buttons = document.querySelectorAll('button');
		for (var i = 0; i < buttons.length; i++) {
			if ((buttons[i].textContent || '').indexOf(%q) !== -1) {
				buttons[i].click();
				return true;
			}
		}
		return false;
	})()`, label)
}

// digitsToInt keeps only digit characters of a text node and parses the
// result, so "$2,350/mo" and "1,024 sqft" both come out whole.
func digitsToInt(s string) *int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return nil
	}
	return &n
}

// splitSecondaryAddress splits "Seattle, WA 98101" on the first comma
// into the city and the zip+state fragment; the zip is the final
// whitespace-delimited token of that fragment.
func splitSecondaryAddress(secondary string) (city, zip *string) {
	secondary = strings.TrimSpace(secondary)
	if secondary == "" {
		return nil, nil
	}

	parts := strings.SplitN(secondary, ",", 2)
	c := strings.TrimSpace(parts[0])
	if c != "" {
		city = &c
	}
	if len(parts) < 2 {
		return city, nil
	}

	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return city, nil
	}
	z := fields[len(fields)-1]
	zip = &z
	return city, zip
}
