// Package timeline parses the free-form date/time text shown on the manage
// calendar view into absolute start/end instants. These parsed entries act
// as authoritative overrides for dates scraped from public event pages.
package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultZone is the timezone label stamped on every locally determined
// entry, and the fallback zone for events whose pages carry none.
const DefaultZone = "America/Los_Angeles"

// defaultEventLength fills in the end time when none is published.
const defaultEventLength = 4 * time.Hour

// Entry is an ephemeral override record for a single event, keyed by event
// ID by the reconciler and discarded after one merge pass.
type Entry struct {
	StartAt  time.Time
	EndAt    time.Time
	Timezone string
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

var (
	endedPattern = regexp.MustCompile(`(?i)This event ended.*?ago\.?`)
	spaceRun     = regexp.MustCompile(`\s+`)
	datePattern  = regexp.MustCompile(`(?i)(Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday)?,?\s*(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s*(\d{4})`)
	rangePattern = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*(AM|PM)(?:\s*(?:PT|PST|PDT))?\s*(?:[-–]\s*(\d{1,2}:\d{2})\s*(AM|PM)(?:\s*(?:PT|PST|PDT))?)?`)
	timePattern  = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)(?:\s*(?:PT|PST|PDT))?`)
)

// isDaylightMonth reports whether the fixed DST approximation treats the
// month as daylight time. The window is hardcoded to March through October;
// this deliberately trades accuracy at the DST boundaries for deterministic
// output without a timezone database, and changing it would shift
// historical instants already persisted in the dataset.
func isDaylightMonth(m time.Month) bool {
	return m >= time.March && m <= time.October
}

// localToUTC converts a Pacific wall-clock reading to an absolute instant
// using the fixed offset approximation (UTC-7 in the daylight window,
// UTC-8 otherwise). Day overflow from overnight ranges normalizes through
// time.Date.
func localToUTC(year int, month time.Month, day, hour, minute int) time.Time {
	offset := 8
	if isDaylightMonth(month) {
		offset = 7
	}
	return time.Date(year, month, day, hour+offset, minute, 0, 0, time.UTC)
}

func toHour24(hour int, period string) int {
	h := hour % 12
	if strings.EqualFold(period, "PM") {
		h += 12
	}
	return h
}

// Parse extracts a timeline entry from manage-view text such as
// "Sunday, November 23, 2025 10:00 AM - 2:00 PM PT", tolerating an
// "This event ended N days ago." prefix. A recognizable date is required;
// without one Parse returns nil and the caller produces no override for
// that event. A missing time range defaults to 9:00 AM, and a missing end
// time to start plus four hours. An end time earlier than the start is
// taken to land on the next day.
func Parse(text string) *Entry {
	if text == "" {
		return nil
	}

	cleaned := endedPattern.ReplaceAllString(text, " ")
	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))

	dateMatch := datePattern.FindStringSubmatch(cleaned)
	if dateMatch == nil {
		return nil
	}
	month, ok := months[strings.ToLower(dateMatch[2])]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(dateMatch[3])
	year, _ := strconv.Atoi(dateMatch[4])

	startHour, startMinute := 9, 0
	endHour, endMinute := -1, -1

	if m := rangePattern.FindStringSubmatch(cleaned); m != nil {
		h, min := splitClock(m[1])
		startHour = toHour24(h, m[2])
		startMinute = min
		if m[3] != "" && m[4] != "" {
			h, min = splitClock(m[3])
			endHour = toHour24(h, m[4])
			endMinute = min
		}
	} else if m := timePattern.FindStringSubmatch(cleaned); m != nil {
		h, _ := strconv.Atoi(m[1])
		startMinute, _ = strconv.Atoi(m[2])
		startHour = toHour24(h, m[3])
	}

	start := localToUTC(year, month, day, startHour, startMinute)

	var end time.Time
	if endHour >= 0 {
		endDay := day
		if endHour < startHour || (endHour == startHour && endMinute < startMinute) {
			endDay++ // overnight event
		}
		end = localToUTC(year, month, endDay, endHour, endMinute)
	} else {
		end = start.Add(defaultEventLength)
	}

	return &Entry{StartAt: start, EndAt: end, Timezone: DefaultZone}
}

func splitClock(clock string) (hour, minute int) {
	parts := strings.SplitN(clock, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour, minute
}
