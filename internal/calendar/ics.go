// Package calendar renders the event dataset as an iCalendar feed so
// members can subscribe from their own calendar apps.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
)

const (
	productID    = "-//devx.network//devx-events//EN"
	calendarName = "DEVx Network Events"
	uidDomain    = "devx.network"
)

// Build assembles a calendar with one VEVENT per event. Event IDs anchor
// the UIDs, so re-exports update entries instead of duplicating them.
func Build(events []*event.Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(calendarName)

	now := time.Now().UTC()
	for _, evt := range events {
		if evt == nil || evt.ID == "" {
			continue
		}
		ve := cal.AddEvent(fmt.Sprintf("%s@%s", evt.ID, uidDomain))
		ve.SetDtStampTime(now)
		ve.SetStartAt(evt.StartAt)
		ve.SetEndAt(evt.EndAt)
		ve.SetSummary(evt.Name)
		if evt.Description != "" {
			ve.SetDescription(evt.Description)
		}
		if loc := formatLocation(evt.Location); loc != "" {
			ve.SetLocation(loc)
		}
		if evt.URL != "" {
			ve.SetURL(evt.URL)
		}
	}
	return cal
}

// formatLocation renders a location for the LOCATION property.
func formatLocation(loc *event.Location) string {
	if loc == nil {
		return ""
	}
	if loc.Type == event.LocationOnline {
		return "Online"
	}
	if loc.Address != "" {
		return loc.Address
	}
	var parts []string
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	if loc.State != "" {
		parts = append(parts, loc.State)
	}
	return strings.Join(parts, ", ")
}
