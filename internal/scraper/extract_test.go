package scraper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "..", "testdata", "fixtures", name))
	if err != nil {
		t.Fatalf("opening fixture %s: %v", name, err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parsing fixture %s: %v", name, err)
	}
	return doc
}

func TestExtractStructuredPage(t *testing.T) {
	doc := loadFixture(t, "event_page_structured.html")
	evt, err := Extract(doc, "https://lu.ma/evt-abc123", "America/Los_Angeles")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if evt.ID != "evt-abc123" {
		t.Errorf("ID = %q, want evt-abc123", evt.ID)
	}
	if evt.Name != "AI Builders Night" {
		t.Errorf("Name = %q", evt.Name)
	}
	if evt.CoverURL != "https://images.lu.ma/covers/ai-builders.png" {
		t.Errorf("CoverURL = %q", evt.CoverURL)
	}

	// JSON-LD dates beat the og:start_time meta tag.
	wantStart := time.Date(2025, time.June, 12, 1, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.June, 12, 4, 0, 0, 0, time.UTC)
	if !evt.StartAt.Equal(wantStart) {
		t.Errorf("StartAt = %v, want %v", evt.StartAt, wantStart)
	}
	if !evt.EndAt.Equal(wantEnd) {
		t.Errorf("EndAt = %v, want %v", evt.EndAt, wantEnd)
	}

	loc := evt.Location
	if loc == nil || loc.Type != event.LocationPhysical {
		t.Fatalf("Location = %+v, want physical", loc)
	}
	if loc.Address != "500 Howard St, San Francisco, CA, 94105" {
		t.Errorf("Address = %q", loc.Address)
	}
	if loc.City != "San Francisco" || loc.State != "CA" {
		t.Errorf("City/State = %q/%q", loc.City, loc.State)
	}
	if loc.Coordinates == nil {
		t.Fatal("Coordinates missing")
	}
	// latitude is a JSON string in the fixture, longitude a number
	if loc.Coordinates.Lat != 37.7881 || loc.Coordinates.Lng != -122.3961 {
		t.Errorf("Coordinates = %+v", loc.Coordinates)
	}

	if evt.GuestCount != 42 {
		t.Errorf("GuestCount = %d, want 42", evt.GuestCount)
	}
	if evt.Visibility != event.VisibilityPublic {
		t.Errorf("Visibility = %q", evt.Visibility)
	}
	if evt.Timezone != "America/Los_Angeles" {
		t.Errorf("Timezone = %q", evt.Timezone)
	}
	if evt.Description != "Join us for an evening of demos. Doors open at 6. Venue map" {
		t.Errorf("Description = %q", evt.Description)
	}
}

func TestExtractSanitizesDescriptionHTML(t *testing.T) {
	doc := loadFixture(t, "event_page_structured.html")
	evt, err := Extract(doc, "https://lu.ma/evt-abc123", "America/Los_Angeles")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	html := evt.DescriptionHTML
	if !strings.Contains(html, "<b>demos</b>") {
		t.Errorf("inline formatting should survive: %q", html)
	}
	for _, banned := range []string{"<script", "<iframe", "onclick", "style="} {
		if strings.Contains(html, banned) {
			t.Errorf("sanitized HTML still contains %q: %q", banned, html)
		}
	}
	if !strings.Contains(html, `href="https://lu.ma/venue-map"`) {
		t.Errorf("relative link should be absolutized: %q", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) || !strings.Contains(html, `target="_blank"`) {
		t.Errorf("links should open in a new context: %q", html)
	}
}

func TestExtractDOMFallbacks(t *testing.T) {
	doc := loadFixture(t, "event_page_dom.html")
	evt, err := Extract(doc, "https://lu.ma/hwhack123", "America/Los_Angeles")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if evt.ID != "evt-hwhack123" {
		t.Errorf("ID = %q, want evt-hwhack123", evt.ID)
	}
	if evt.CoverURL != "https://images.lu.ma/covers/hardware.png" {
		t.Errorf("CoverURL = %q, data-src fallback missed", evt.CoverURL)
	}

	wantStart := time.Date(2025, time.February, 8, 18, 0, 0, 0, time.UTC)
	if !evt.StartAt.Equal(wantStart) {
		t.Errorf("StartAt = %v, want %v (og:start_time)", evt.StartAt, wantStart)
	}
	if !evt.EndAt.Equal(wantStart.Add(4 * time.Hour)) {
		t.Errorf("EndAt = %v, want start+4h", evt.EndAt)
	}

	loc := evt.Location
	if loc == nil || loc.Type != event.LocationPhysical {
		t.Fatalf("Location = %+v, want physical", loc)
	}
	if loc.City != "Oakland" || loc.State != "CA" {
		t.Errorf("City/State = %q/%q", loc.City, loc.State)
	}
	if loc.Address != "Oakstop, 1721 Broadway, CA" {
		t.Errorf("Address = %q", loc.Address)
	}
	if loc.Coordinates == nil || loc.Coordinates.Lat != 37.8044 || loc.Coordinates.Lng != -122.2712 {
		t.Errorf("Coordinates = %+v, want pulled from maps link", loc.Coordinates)
	}

	if evt.Description != "Bring your soldering iron." {
		t.Errorf("Description = %q", evt.Description)
	}
	if evt.GuestCount != event.GuestCountUnknown {
		t.Errorf("GuestCount = %d, want sentinel for no counter", evt.GuestCount)
	}
}

func TestExtractOnlineEvent(t *testing.T) {
	doc := loadFixture(t, "event_page_online.html")
	evt, err := Extract(doc, "https://lu.ma/remote99", "America/Los_Angeles")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if evt.Location == nil || evt.Location.Type != event.LocationOnline {
		t.Fatalf("Location = %+v, want online", evt.Location)
	}
	if evt.Location.Address != "" || evt.Location.City != "" {
		t.Errorf("online location should carry no venue fields: %+v", evt.Location)
	}
	// No about block: the description falls back to the event name.
	if evt.Description != "Remote Demo Day" {
		t.Errorf("Description = %q", evt.Description)
	}
	// No published dates: start is synthesized, end follows it.
	if evt.StartAt.IsZero() || !evt.EndAt.Equal(evt.StartAt.Add(4*time.Hour)) {
		t.Errorf("synthesized instants wrong: start %v end %v", evt.StartAt, evt.EndAt)
	}
}

func TestExtractRequiresEventID(t *testing.T) {
	doc := loadFixture(t, "event_page_online.html")
	if _, err := Extract(doc, "https://lu.ma/signin", "America/Los_Angeles"); err == nil {
		t.Error("expected error for URL with no derivable event id")
	}
}

func TestCoordsFromMapsLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		want *event.Coordinates
	}{
		{"at form", "https://www.google.com/maps/@37.7881,-122.3961,15z", &event.Coordinates{Lat: 37.7881, Lng: -122.3961}},
		{"query form", "https://www.google.com/maps/search/?api=1&query=37.7881,-122.3961", &event.Coordinates{Lat: 37.7881, Lng: -122.3961}},
		{"bare floats", "https://maps.google.com/maps?ll=37.8044,-122.2712&z=15", &event.Coordinates{Lat: 37.8044, Lng: -122.2712}},
		{"out of range", "https://maps.google.com/maps?ll=137.8044,-222.2712", nil},
		{"no coords", "https://maps.google.com/maps?q=Oakstop", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coordsFromMapsLink(tt.link)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("coordsFromMapsLink(%q) = %+v, want %+v", tt.link, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("coordsFromMapsLink(%q) = %+v, want %+v", tt.link, got, tt.want)
			}
		})
	}
}
