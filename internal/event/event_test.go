package event

import (
	"encoding/json"
	"testing"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://lu.ma/evt-abc123", "evt-abc123"},
		{"/evt-abc123", "evt-abc123"},
		{"https://lu.ma/py8urggk", "evt-py8urggk"},
		{"/zxy45mnop", "evt-zxy45mnop"},
		{"https://lu.ma/evt-track9?k=tw", "evt-track9"},
		{"https://lu.ma/signin", ""},
		{"/help", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractID(tt.url); got != tt.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestUnmarshalGuestCountSentinel(t *testing.T) {
	var evt Event
	if err := json.Unmarshal([]byte(`{"api_id":"evt-a","name":"Meetup"}`), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.GuestCount != GuestCountUnknown {
		t.Errorf("missing guest_count should unmarshal to %d, got %d", GuestCountUnknown, evt.GuestCount)
	}

	if err := json.Unmarshal([]byte(`{"api_id":"evt-b","guest_count":0}`), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.GuestCount != 0 {
		t.Errorf("explicit zero guest_count should stay 0, got %d", evt.GuestCount)
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	in := &Event{
		ID:         "evt-roundtrip",
		Name:       "Demo Night",
		URL:        "https://lu.ma/evt-roundtrip",
		GuestCount: 17,
		Visibility: VisibilityPublic,
		Location: &Location{
			Type:        LocationPhysical,
			Address:     "500 Howard St, CA",
			City:        "San Francisco",
			State:       "CA",
			Coordinates: &Coordinates{Lat: 37.78, Lng: -122.39},
		},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Event
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.GuestCount != 17 || out.Location == nil || out.Location.Coordinates.Lng != -122.39 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
