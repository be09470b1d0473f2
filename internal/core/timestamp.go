// AngelaMos | 2026
// timestamp.go

package core

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTimestamp accepts ISO-8601 date or date-time strings. Values
// without an offset are read as UTC. Results are truncated to the
// microsecond, the resolution of TIMESTAMPTZ, so ordering checks agree
// with what the database stores.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse timestamp: empty value: %w", ErrInvalidInput)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}

	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, ErrInvalidInput)
}
