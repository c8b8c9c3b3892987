package event

import "sort"

// Merge folds incoming events into an existing dataset keyed by ID.
// Incoming records without an ID are dropped. When an ID is already present
// the incoming record is shallow-merged over the existing one: populated
// incoming fields win, empty fields never erase existing values. New IDs are
// inserted as-is. Output order is unspecified; callers re-sort before
// persisting.
func Merge(existing, incoming []*Event) []*Event {
	byID := make(map[string]*Event, len(existing))
	order := make([]string, 0, len(existing)+len(incoming))

	for _, evt := range existing {
		if evt == nil || evt.ID == "" {
			continue
		}
		if _, ok := byID[evt.ID]; !ok {
			order = append(order, evt.ID)
		}
		byID[evt.ID] = evt
	}

	for _, evt := range incoming {
		if evt == nil || evt.ID == "" {
			continue
		}
		if prev, ok := byID[evt.ID]; ok {
			byID[evt.ID] = overlay(prev, evt)
		} else {
			byID[evt.ID] = evt
			order = append(order, evt.ID)
		}
	}

	merged := make([]*Event, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}

// overlay returns a copy of base with populated fields from top applied.
// GuestCount always comes from top: the extractor reports it on every
// successful scrape, and the sentinel -1 is a real observation ("checked,
// unknown"), not an absent field.
func overlay(base, top *Event) *Event {
	out := *base
	if top.ID != "" {
		out.ID = top.ID
	}
	if top.Name != "" {
		out.Name = top.Name
	}
	if top.Description != "" {
		out.Description = top.Description
	}
	if top.DescriptionHTML != "" {
		out.DescriptionHTML = top.DescriptionHTML
	}
	if !top.StartAt.IsZero() {
		out.StartAt = top.StartAt
	}
	if !top.EndAt.IsZero() {
		out.EndAt = top.EndAt
	}
	if top.Location != nil {
		out.Location = top.Location
	}
	if top.CoverURL != "" {
		out.CoverURL = top.CoverURL
	}
	if top.URL != "" {
		out.URL = top.URL
	}
	out.GuestCount = top.GuestCount
	if top.Visibility != "" {
		out.Visibility = top.Visibility
	}
	if top.Timezone != "" {
		out.Timezone = top.Timezone
	}
	return &out
}

// Overlay shallow-merges scraped fields over a cached copy of the same
// event. Exposed for the crawler, which merges each fresh extraction over
// the previously persisted record before the dataset-level Merge runs.
func Overlay(cached, scraped *Event) *Event {
	if cached == nil {
		return scraped
	}
	if scraped == nil {
		return cached
	}
	return overlay(cached, scraped)
}

// SortByStartDesc orders events newest-first by start time, the order the
// dataset is persisted in.
func SortByStartDesc(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartAt.After(events[j].StartAt)
	})
}
