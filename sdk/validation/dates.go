// Package validation parses loosely formatted user input.
package validation

import (
	"fmt"
	"time"
)

var flexibleFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
	"2006-01-02T15:04",
	"01/02/2006",
	"2006/01/02",
}

// ParseFlexibleDate parses a timestamp in RFC3339 or one of a few common date layouts.
// Layouts without a zone are read as UTC.
func ParseFlexibleDate(s string) (time.Time, error) {
	for _, format := range flexibleFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
