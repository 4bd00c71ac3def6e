package statement

import (
	"fmt"
	"strings"
	"time"
)

// commonDateLayouts covers the formats banks emit most often. US-style
// month-first layouts are tried before day-first ones.
var commonDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// parseDate parses a date string, preferring the caller-supplied layout.
func parseDate(value, layout string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if layout != "" {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, l := range commonDateLayouts {
		if t, err := time.Parse(l, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
