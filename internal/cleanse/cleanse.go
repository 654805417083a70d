// Package cleanse normalizes the heterogeneous text found in exported CSV
// files: currency strings into floats and free-form dates into ISO dates.
// Parse failures never abort a batch; bad values are coerced to a safe default
// and counted, so data quality loss shows up in the import summary instead of
// only in the log.
package cleanse

import (
	"strconv"
	"strings"
	"time"
)

// Stats counts how many values a run coerced to defaults.
type Stats struct {
	CoercedCurrency int // values replaced with 0.0
	CoercedDates    int // values replaced with null
}

// Total returns the overall number of coerced values.
func (s *Stats) Total() int {
	return s.CoercedCurrency + s.CoercedDates
}

// nullMarkers are the case-insensitive strings treated as an absent date.
var nullMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"nat":  true,
	"none": true,
	"null": true,
}

// dateLayouts are tried in order when parsing a date value.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Currency parses a currency string like "$1,234.56" into 1234.56. A value
// that does not parse becomes 0.0 and is counted; ingestion never blocks on a
// malformed amount.
func (s *Stats) Currency(value string) float64 {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		s.CoercedCurrency++
		return 0.0
	}
	return f
}

// Date normalizes a date string to YYYY-MM-DD. Null markers ("", "nan",
// "NaT", "none", "null", any case) return ("", false) without counting as a
// coercion; a value that fails every layout returns ("", false) and is
// counted. The row keeps a null date rather than being dropped.
func (s *Stats) Date(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if nullMarkers[strings.ToLower(trimmed)] {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	s.CoercedDates++
	return "", false
}
