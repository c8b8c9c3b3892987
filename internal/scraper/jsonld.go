package scraper

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// structuredData accumulates the first usable values found while walking a
// page's JSON-LD blocks. Schema.org data in the wild nests events under
// @graph, event lists, and itemListElement wrappers, and mixes Place and
// VirtualLocation nodes, so the walk is recursive and tolerant: malformed
// blocks are skipped, and only the first occurrence of each field is kept.
type structuredData struct {
	startDate string
	endDate   string
	timezone  string

	location map[string]any
	locType  string
	locName  string
	address  map[string]any
	geo      map[string]any
}

// walkJSONLD collects structured metadata from every ld+json script block
// in the document.
func walkJSONLD(doc *goquery.Document) *structuredData {
	sd := &structuredData{}
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return // malformed block, ignore
		}
		switch v := parsed.(type) {
		case []any:
			for _, item := range v {
				sd.processNode(item)
			}
		default:
			sd.processNode(parsed)
		}
	})
	return sd
}

func (sd *structuredData) processNode(raw any) {
	node, ok := raw.(map[string]any)
	if !ok {
		return
	}

	if sd.startDate == "" {
		if s, ok := node["startDate"].(string); ok {
			sd.startDate = s
		}
	}
	if sd.endDate == "" {
		if s, ok := node["endDate"].(string); ok {
			sd.endDate = s
		}
	}
	if sd.timezone == "" {
		if s, ok := node["timezone"].(string); ok {
			sd.timezone = s
		}
	}

	switch loc := node["location"].(type) {
	case []any:
		for _, l := range loc {
			if m, ok := l.(map[string]any); ok {
				sd.captureLocation(m)
			}
		}
	case map[string]any:
		sd.captureLocation(loc)
	}

	if t, ok := node["@type"].(string); ok {
		lower := strings.ToLower(t)
		if lower == "place" || lower == "virtuallocation" {
			sd.captureLocation(node)
		}
	}

	for _, key := range []string{"@graph", "event", "events", "itemListElement"} {
		switch nested := node[key].(type) {
		case []any:
			for _, n := range nested {
				sd.processNode(n)
			}
		case map[string]any:
			sd.processNode(nested)
		}
	}
}

func (sd *structuredData) captureLocation(loc map[string]any) {
	if sd.location == nil {
		sd.location = loc
	}
	if sd.locType == "" {
		if t, ok := loc["@type"].(string); ok {
			sd.locType = t
		}
	}
	if sd.locName == "" {
		if n, ok := loc["name"].(string); ok {
			sd.locName = n
		}
	}
	if sd.address == nil {
		if a, ok := loc["address"].(map[string]any); ok {
			sd.address = a
		}
	}
	if sd.geo == nil {
		if g, ok := loc["geo"].(map[string]any); ok {
			sd.geo = g
		}
	}
	if sd.timezone == "" {
		if tz, ok := loc["timezone"].(string); ok {
			sd.timezone = tz
		}
	}
}

// addressField returns a trimmed string field from the captured postal
// address, checking the location's own address object as a fallback.
func (sd *structuredData) addressField(key string) string {
	addr := sd.address
	if addr == nil && sd.location != nil {
		if a, ok := sd.location["address"].(map[string]any); ok {
			addr = a
		}
	}
	if addr == nil {
		return ""
	}
	if s, ok := addr[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// geoCoordinate reads a coordinate that may be published as a JSON number
// or a string, under either the schema.org key or its short form.
func (sd *structuredData) geoCoordinate(key, shortKey string) (float64, bool) {
	if sd.geo == nil {
		return 0, false
	}
	for _, k := range []string{key, shortKey} {
		v, present := sd.geo[k]
		if !present {
			continue
		}
		return parseCoordinate(v)
	}
	return 0, false
}

func parseCoordinate(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// instantLayouts covers the datetime shapes seen in JSON-LD and meta tags.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseInstant parses an ISO-8601-ish timestamp into UTC. Zone-less values
// are taken as UTC.
func parseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
