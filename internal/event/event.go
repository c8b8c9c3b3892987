package event

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Visibility values for an event.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// GuestCountUnknown is the sentinel for "no attendee count detected".
// It is distinct from a legitimate count of zero.
const GuestCountUnknown = -1

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is either an online event or a physical venue. Type is "online"
// or "physical"; the remaining fields apply to physical locations only.
type Location struct {
	Type        string       `json:"type"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	State       string       `json:"state,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

const (
	LocationOnline   = "online"
	LocationPhysical = "physical"
)

// Event is the canonical unit of output. The JSON field names match the
// dataset the site already ships, so a regenerated file stays drop-in
// compatible.
type Event struct {
	ID              string    `json:"api_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Location        *Location `json:"location,omitempty"`
	CoverURL        string    `json:"cover_url,omitempty"`
	URL             string    `json:"url"`
	GuestCount      int       `json:"guest_count"`
	Visibility      string    `json:"visibility"`
	Timezone        string    `json:"timezone,omitempty"`
}

// UnmarshalJSON preserves the guest-count sentinel: a record persisted
// without a guest_count field means "unknown", not zero.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		*alias
		GuestCount *int `json:"guest_count"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.GuestCount == nil {
		e.GuestCount = GuestCountUnknown
	} else {
		e.GuestCount = *aux.GuestCount
	}
	return nil
}

var (
	evtIDPattern  = regexp.MustCompile(`/evt-([a-z0-9]+)`)
	tailIDPattern = regexp.MustCompile(`(?i)/([a-z0-9]{8,})$`)
)

// ExtractID derives the stable event ID from an event URL. Luma event pages
// either carry an explicit /evt-xxx segment or end in a short alphanumeric
// slug; both map to the evt- prefixed form used as the merge key.
// Returns "" when the URL does not look like an event page.
func ExtractID(rawURL string) string {
	m := evtIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		m = tailIDPattern.FindStringSubmatch(rawURL)
	}
	if m == nil {
		return ""
	}
	id := m[1]
	if strings.HasPrefix(id, "evt-") {
		return id
	}
	return "evt-" + id
}
