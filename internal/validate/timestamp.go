package validate

import (
	"strings"
	"time"
)

// TimestampLayouts are the ISO-8601 shapes IsTimestamp accepts. Fractional
// seconds after a dot are accepted by every layout with a seconds field.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05,000",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// IsTimestamp reports whether s parses as an ISO-8601 date or date-time.
func IsTimestamp(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	for _, layout := range TimestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
