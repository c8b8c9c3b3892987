// Package filter matches events against simple list queries: temporal
// tokens ("upcoming", "past"), two-letter state codes, and free-text terms.
package filter

import (
	"strings"
	"time"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

// Temporal narrows events by their relation to now.
type Temporal string

const (
	TemporalAny      Temporal = ""
	TemporalUpcoming Temporal = "upcoming"
	TemporalPast     Temporal = "past"
)

// Filter is a parsed list query. All populated parts must match.
type Filter struct {
	Temporal Temporal
	State    string
	Terms    []string
}

// Parse tokenizes a query string. "upcoming"/"past" select a temporal
// window, a bare two-letter token is treated as a state code, and anything
// else is a case-insensitive text term.
func Parse(query string) *Filter {
	f := &Filter{}
	for _, token := range strings.Fields(query) {
		lower := strings.ToLower(token)
		switch {
		case lower == string(TemporalUpcoming):
			f.Temporal = TemporalUpcoming
		case lower == string(TemporalPast):
			f.Temporal = TemporalPast
		case len(token) == 2 && isAlpha(token):
			f.State = strings.ToUpper(token)
		default:
			f.Terms = append(f.Terms, lower)
		}
	}
	return f
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Match reports whether an event satisfies the filter at the given time.
func (f *Filter) Match(evt *event.Event, now time.Time) bool {
	switch f.Temporal {
	case TemporalUpcoming:
		if evt.StartAt.Before(now) {
			return false
		}
	case TemporalPast:
		if !evt.StartAt.Before(now) {
			return false
		}
	}

	if f.State != "" {
		if evt.Location == nil || !strings.EqualFold(evt.Location.State, f.State) {
			return false
		}
	}

	if len(f.Terms) > 0 {
		haystack := strings.ToLower(evt.Name + " " + evt.Description)
		if evt.Location != nil {
			haystack += " " + strings.ToLower(evt.Location.City+" "+evt.Location.Address)
		}
		for _, term := range f.Terms {
			if !strings.Contains(haystack, term) {
				return false
			}
		}
	}

	return true
}

// Apply returns the events matching the filter, preserving order.
func (f *Filter) Apply(events []*event.Event, now time.Time) []*event.Event {
	var out []*event.Event
	for _, evt := range events {
		if f.Match(evt, now) {
			out = append(out, evt)
		}
	}
	return out
}
