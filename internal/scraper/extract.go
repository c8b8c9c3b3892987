package scraper

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

const defaultEventLength = 4 * time.Hour

var (
	newlineRun    = regexp.MustCompile(`\s*\n\s*`)
	multiSpaceRun = regexp.MustCompile(`\s{2,}`)
	spaceComma    = regexp.MustCompile(`\s+,`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	cityStateRe   = regexp.MustCompile(`([A-Za-z](?:[A-Za-z\s.']|-)+?),\s*([A-Z]{2})(?:\s|,|$)`)
	atCoordsRe    = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	queryCoordsRe = regexp.MustCompile(`query=(-?\d+\.\d+),(-?\d+\.\d+)`)
	anyFloatRe    = regexp.MustCompile(`-?\d+\.\d+`)
	guestCountRe  = regexp.MustCompile(`(?i)(\d+)\s*(Going|Attending)`)
	trailingComma = regexp.MustCompile(`,\s*$`)
)

// Extract produces one event record from a rendered event page. Fields are
// filled from the strongest available source: JSON-LD and meta tags first,
// DOM heuristics second, synthesized defaults last. It never errors on
// missing content — only on a URL no event ID can be derived from.
func Extract(doc *goquery.Document, pageURL, defaultZone string) (*event.Event, error) {
	id := event.ExtractID(pageURL)
	if id == "" {
		return nil, fmt.Errorf("no event id derivable from %s", pageURL)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = "Untitled Event"
	}

	coverURL := extractCover(doc)
	sd := walkJSONLD(doc)

	startAt, endAt := extractInstants(doc, sd)

	zone := sd.timezone
	if zone == "" {
		zone = defaultZone
	}

	loc := extractLocation(doc, sd)

	descHTML, desc := extractDescription(doc, pageURL)
	if desc == "" {
		desc = name
	}

	guestCount := extractGuestCount(doc)

	if startAt.IsZero() {
		startAt = time.Now().UTC()
	}
	if endAt.IsZero() {
		endAt = startAt.Add(defaultEventLength)
	}

	evt := &event.Event{
		ID:              id,
		Name:            name,
		Description:     desc,
		DescriptionHTML: descHTML,
		StartAt:         startAt,
		EndAt:           endAt,
		Location:        event.NormalizeLocation(loc),
		CoverURL:        coverURL,
		URL:             pageURL,
		GuestCount:      guestCount,
		Visibility:      event.VisibilityPublic,
		Timezone:        zone,
	}
	return evt, nil
}

func extractCover(doc *goquery.Document) string {
	img := doc.Find("img[alt*='Cover'], img[alt*='cover']").First()
	if src, ok := img.Attr("src"); ok && src != "" {
		return src
	}
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return src
	}
	return ""
}

// extractInstants resolves start and end from JSON-LD, then meta tags.
func extractInstants(doc *goquery.Document, sd *structuredData) (start, end time.Time) {
	if t, ok := parseInstant(sd.startDate); ok {
		start = t
	}
	if t, ok := parseInstant(sd.endDate); ok {
		end = t
	}

	if start.IsZero() {
		if content := metaContent(doc, "meta[property='og:start_time'], meta[name='start_time']"); content != "" {
			if t, ok := parseInstant(content); ok {
				start = t
			}
		}
	}
	if end.IsZero() {
		if content := metaContent(doc, "meta[property='og:end_time'], meta[name='end_time']"); content != "" {
			if t, ok := parseInstant(content); ok {
				end = t
			}
		}
	}
	return start, end
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// extractLocation combines the structured location (if any) with DOM
// fallbacks. Structured fields win; DOM-derived city/state/coordinates only
// fill gaps.
func extractLocation(doc *goquery.Document, sd *structuredData) *event.Location {
	var loc *event.Location
	if sd.location != nil || sd.address != nil {
		loc = structuredLocation(sd)
	}

	locSel := doc.Find("[class*='location'], [class*='Location'], a[href*='maps']").First()
	domText, domAddress, domCity, domState := "", "", "", ""
	var domCoords *event.Coordinates

	if locSel.Length() > 0 {
		domText = normalizeLocationText(locSel.Text())
		if domText != "" {
			if m := cityStateRe.FindStringSubmatchIndex(domText); m != nil {
				domCity = strings.TrimSpace(domText[m[2]:m[3]])
				domState = strings.TrimSpace(domText[m[4]:m[5]])
				domAddress = strings.TrimSpace(trailingComma.ReplaceAllString(domText[:m[0]], ""))
			}
			if domAddress == "" {
				for _, part := range strings.Split(domText, ",") {
					if p := strings.TrimSpace(part); p != "" {
						domAddress = p
						break
					}
				}
			}
		}

		mapsLink, _ := locSel.Attr("href")
		if mapsLink == "" {
			mapsLink, _ = locSel.Find("a").First().Attr("href")
		}
		if mapsLink != "" {
			domCoords = coordsFromMapsLink(mapsLink)
		}

		lower := strings.ToLower(domText)
		if loc == nil && (strings.Contains(lower, "online") || strings.Contains(lower, "virtual")) {
			loc = &event.Location{Type: event.LocationOnline}
		}
	}

	switch {
	case loc != nil && loc.Type == event.LocationPhysical:
		if loc.Address == "" && domAddress != "" {
			loc.Address = domAddress
		}
		if loc.City == "" && domCity != "" {
			loc.City = domCity
		}
		if loc.State == "" && domState != "" {
			loc.State = domState
		}
		if loc.Coordinates == nil && domCoords != nil {
			loc.Coordinates = domCoords
		}
		if loc.Address != "" {
			loc.Address = collapseWhitespace(loc.Address)
		}
	case loc == nil:
		if domAddress != "" || domCity != "" || domState != "" || domCoords != nil {
			address := domAddress
			if address == "" {
				address = domText
			}
			loc = &event.Location{
				Type:        event.LocationPhysical,
				Address:     collapseWhitespace(address),
				City:        domCity,
				State:       domState,
				Coordinates: domCoords,
			}
		}
	}
	return loc
}

// structuredLocation builds a location from captured JSON-LD data. A
// VirtualLocation (or anything with virtual/online in its type) maps to an
// online location; otherwise the postal address parts are reassembled into
// a display address.
func structuredLocation(sd *structuredData) *event.Location {
	typeToken := strings.ToLower(sd.locType)
	if strings.Contains(typeToken, "virtual") || strings.Contains(typeToken, "online") {
		return &event.Location{Type: event.LocationOnline}
	}

	street := sd.addressField("streetAddress")
	city := sd.addressField("addressLocality")
	state := sd.addressField("addressRegion")
	postal := sd.addressField("postalCode")

	var parts []string
	if street != "" {
		parts = append(parts, street)
	}
	cityState := city
	if state != "" {
		if cityState != "" {
			cityState += ", " + state
		} else {
			cityState = state
		}
	}
	if cityState != "" {
		parts = append(parts, cityState)
	}
	if postal != "" {
		parts = append(parts, postal)
	}

	address := strings.Join(parts, ", ")
	if address == "" {
		address = strings.TrimSpace(sd.locName)
	}

	loc := &event.Location{
		Type:    event.LocationPhysical,
		Address: address,
		City:    city,
		State:   state,
	}
	if lat, ok := sd.geoCoordinate("latitude", "lat"); ok {
		if lng, ok := sd.geoCoordinate("longitude", "lng"); ok {
			loc.Coordinates = &event.Coordinates{Lat: lat, Lng: lng}
		}
	}
	return loc
}

// coordsFromMapsLink pulls a lat/lng pair out of a map link, trying the
// @lat,lng form, then query=lat,lng, then the first two floats anywhere in
// the URL. Out-of-range pairs are rejected.
func coordsFromMapsLink(link string) *event.Coordinates {
	var lat, lng float64
	found := false

	if m := atCoordsRe.FindStringSubmatch(link); m != nil {
		lat, _ = strconv.ParseFloat(m[1], 64)
		lng, _ = strconv.ParseFloat(m[2], 64)
		found = true
	}
	if !found {
		if m := queryCoordsRe.FindStringSubmatch(link); m != nil {
			lat, _ = strconv.ParseFloat(m[1], 64)
			lng, _ = strconv.ParseFloat(m[2], 64)
			found = true
		}
	}
	if !found {
		if floats := anyFloatRe.FindAllString(link, 2); len(floats) >= 2 {
			lat, _ = strconv.ParseFloat(floats[0], 64)
			lng, _ = strconv.ParseFloat(floats[1], 64)
			found = true
		}
	}

	if !found || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return nil
	}
	return &event.Coordinates{Lat: lat, Lng: lng}
}

// normalizeLocationText flattens multi-line venue text into a single
// comma-separated line.
func normalizeLocationText(s string) string {
	s = newlineRun.ReplaceAllString(s, ", ")
	s = multiSpaceRun.ReplaceAllString(s, " ")
	s = spaceComma.ReplaceAllString(s, ", ")
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// extractDescription locates the about/description block and returns both
// sanitized HTML and a plain-text rendering. The HTML is rendered
// unescaped by the site, so sanitization here is a security contract:
// script/style/iframe/noscript subtrees, inline styles, and on* handler
// attributes are stripped, and anchors are absolutized and forced to open
// in a new context with noopener noreferrer.
func extractDescription(doc *goquery.Document, pageURL string) (html, text string) {
	about := doc.Find("[class*='about'] [class*='content']").First()
	if about.Length() == 0 {
		about = doc.Find("[class*='About'], [class*='about'], [class*='description']").First()
	}
	if about.Length() == 0 {
		return "", ""
	}

	// The selection belongs to our own parsed copy of the page, so
	// sanitizing in place is safe.
	about.Find("script, style, iframe, noscript").Remove()
	about.Find("[style]").RemoveAttr("style")
	about.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			if !strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	base, baseErr := url.Parse(pageURL)
	about.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(href)
		if err != nil || baseErr != nil {
			a.RemoveAttr("href")
		} else {
			a.SetAttr("href", base.ResolveReference(ref).String())
		}
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener noreferrer")
	})

	inner, err := about.Html()
	if err == nil {
		html = strings.TrimSpace(inner)
	}
	text = collapseWhitespace(about.Text())
	return html, text
}

// extractGuestCount looks for an attendee counter. Absence yields the
// sentinel, never zero: a page with no counter is "unknown", not "empty".
func extractGuestCount(doc *goquery.Document) int {
	sel := doc.Find("[class*='Going'], [class*='going'], [class*='attendees']").First()
	if sel.Length() == 0 {
		return event.GuestCountUnknown
	}
	m := guestCountRe.FindStringSubmatch(sel.Text())
	if m == nil {
		return event.GuestCountUnknown
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return event.GuestCountUnknown
	}
	return n
}
