package scraper

import (
	"testing"
	"time"
)

func TestParseManageTimeline(t *testing.T) {
	doc := loadFixture(t, "manage.html")
	entries := ParseManageTimeline(doc)

	if len(entries) != 2 {
		t.Fatalf("got %d entries %v, want 2", len(entries), entries)
	}

	// The first row for evt-abc123 wins; the duplicate December row is
	// ignored. November is standard time, UTC-8.
	abc := entries["evt-abc123"]
	if abc == nil {
		t.Fatal("missing entry for evt-abc123")
	}
	wantStart := time.Date(2025, time.November, 23, 18, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.November, 23, 22, 0, 0, 0, time.UTC)
	if !abc.StartAt.Equal(wantStart) || !abc.EndAt.Equal(wantEnd) {
		t.Errorf("evt-abc123 = %v/%v, want %v/%v", abc.StartAt, abc.EndAt, wantStart, wantEnd)
	}

	// The "ended ago" prefix is stripped; a July evening crosses midnight UTC.
	py := entries["evt-py8urggk"]
	if py == nil {
		t.Fatal("missing entry for evt-py8urggk")
	}
	wantStart = time.Date(2025, time.July, 10, 1, 30, 0, 0, time.UTC)
	wantEnd = time.Date(2025, time.July, 10, 3, 30, 0, 0, time.UTC)
	if !py.StartAt.Equal(wantStart) || !py.EndAt.Equal(wantEnd) {
		t.Errorf("evt-py8urggk = %v/%v, want %v/%v", py.StartAt, py.EndAt, wantStart, wantEnd)
	}

	// "Date to be announced" produces no override.
	if _, ok := entries["evt-zxy45mnop"]; ok {
		t.Error("unparsable row should produce no entry")
	}
}
