package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

// OutputFormat selects how list results are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// writeEvents renders a list of events in the requested format.
func writeEvents(w io.Writer, events []*event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case FormatText:
		return writeEventsText(w, events)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEventsText(w io.Writer, events []*event.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events found.")
		return err
	}

	for _, evt := range events {
		fmt.Fprintf(w, "%s  %s\n", evt.StartAt.Format(time.RFC1123), evt.Name)
		fmt.Fprintf(w, "    id: %s\n", evt.ID)
		if loc := describeLocation(evt.Location); loc != "" {
			fmt.Fprintf(w, "    where: %s\n", loc)
		}
		if evt.GuestCount != event.GuestCountUnknown {
			fmt.Fprintf(w, "    going: %d\n", evt.GuestCount)
		}
		fmt.Fprintf(w, "    %s\n", evt.URL)
	}
	_, err := fmt.Fprintf(w, "\n%d event(s)\n", len(events))
	return err
}

func describeLocation(loc *event.Location) string {
	if loc == nil {
		return ""
	}
	if loc.Type == event.LocationOnline {
		return "Online"
	}
	switch {
	case loc.Address != "" && loc.City != "":
		return fmt.Sprintf("%s (%s)", loc.Address, loc.City)
	case loc.Address != "":
		return loc.Address
	case loc.City != "" && loc.State != "":
		return loc.City + ", " + loc.State
	case loc.City != "":
		return loc.City
	}
	return ""
}
