package event

import "testing"

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"California", "CA"},
		{"california", "CA"},
		{"ca", "CA"},
		{"CA", "CA"},
		{"District of Columbia", "DC"},
		{"Atlantis", "Atlantis"},
		{"  Texas ", "TX"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeState(tt.in); got != tt.want {
			t.Errorf("NormalizeState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLocationRewritesAddress(t *testing.T) {
	loc := &Location{
		Type:    LocationPhysical,
		Address: "500 Howard St, San Francisco, California 94105",
		City:    "San Francisco",
		State:   "California",
	}
	got := NormalizeLocation(loc)

	if got.State != "CA" {
		t.Errorf("State = %q, want CA", got.State)
	}
	if got.Address != "500 Howard St, San Francisco, CA 94105" {
		t.Errorf("Address = %q, full state name should be abbreviated", got.Address)
	}
	if loc.State != "California" {
		t.Error("input location must not be mutated")
	}
}

func TestNormalizeLocationAppendsState(t *testing.T) {
	loc := &Location{
		Type:    LocationPhysical,
		Address: "1721  Broadway",
		City:    "Oakland",
		State:   "CA",
	}
	got := NormalizeLocation(loc)
	if got.Address != "1721 Broadway, CA" {
		t.Errorf("Address = %q, want whitespace collapsed and state appended", got.Address)
	}
}

func TestNormalizeLocationAddressAlreadyAbbreviated(t *testing.T) {
	loc := &Location{
		Type:    LocationPhysical,
		Address: "1721 Broadway, Oakland, CA",
		State:   "CA",
	}
	got := NormalizeLocation(loc)
	if got.Address != "1721 Broadway, Oakland, CA" {
		t.Errorf("Address = %q, should be unchanged", got.Address)
	}
}

func TestNormalizeLocationPassthrough(t *testing.T) {
	if got := NormalizeLocation(nil); got != nil {
		t.Error("nil location should pass through")
	}
	online := &Location{Type: LocationOnline}
	if got := NormalizeLocation(online); got != online {
		t.Error("online location should pass through untouched")
	}
}
