package event

import (
	"regexp"
	"strings"
)

// stateAbbreviations maps lowercase US state names (plus DC and PR) to their
// two-letter postal abbreviations.
var stateAbbreviations = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
	"puerto rico":          "PR",
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// NormalizeState canonicalizes a state field. Values of two characters or
// fewer are uppercased; longer values are looked up as full state names.
// Unknown names pass through unchanged.
func NormalizeState(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return trimmed
	}
	if len(trimmed) <= 2 {
		return strings.ToUpper(trimmed)
	}
	if abbr, ok := stateAbbreviations[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	return trimmed
}

// stateFullName reverses the abbreviation table.
func stateFullName(abbr string) string {
	for name, a := range stateAbbreviations {
		if a == abbr {
			return name
		}
	}
	return ""
}

// NormalizeLocation cleans a scraped location in place-of. Non-physical
// locations (and nil) pass through untouched. For physical locations it
// collapses whitespace in address and city, canonicalizes the state, and
// keeps the address string consistent with the abbreviated state: an
// embedded full state name is replaced by the abbreviation, and when
// neither form appears the abbreviation is appended. Returns a copy; the
// input is not mutated.
func NormalizeLocation(loc *Location) *Location {
	if loc == nil || loc.Type != LocationPhysical {
		return loc
	}

	out := *loc
	if out.Address != "" {
		out.Address = collapseSpaces(out.Address)
	}
	if out.City != "" {
		out.City = collapseSpaces(out.City)
	}
	if out.State == "" {
		return &out
	}

	out.State = NormalizeState(out.State)
	if out.Address == "" || len(out.State) != 2 {
		return &out
	}

	fullName := stateFullName(out.State)
	if fullName == "" {
		return &out
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(fullName))
	if err != nil {
		return &out
	}
	if re.MatchString(out.Address) {
		out.Address = re.ReplaceAllString(out.Address, out.State)
	} else if !strings.Contains(out.Address, out.State) {
		out.Address = strings.TrimSpace(out.Address + ", " + out.State)
	}
	return &out
}
