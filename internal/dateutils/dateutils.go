// Package dateutils provides the date and time operations used throughout
// the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts appearing in CAMT date containers.
const (
	DateLayoutISO     = "2006-01-02"
	DateTimeLayoutISO = "2006-01-02T15:04:05"
)

// StripOffset truncates a date string at the first '+' character,
// discarding a trailing "+HH:MM" timezone offset. Some real-world exports
// carry malformed offsets, so the offset is dropped rather than parsed.
func StripOffset(dateStr string) string {
	if idx := strings.Index(dateStr, "+"); idx >= 0 {
		dateStr = dateStr[:idx]
	}
	return dateStr
}

// ParseCamtDate parses a date-only value ("2017-04-01") to a time at
// midnight. A trailing timezone offset is tolerated and ignored.
func ParseCamtDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(StripOffset(dateStr))
	t, err := time.Parse(DateLayoutISO, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", dateStr, err)
	}
	return t, nil
}

// ParseCamtDateTime parses a date-time value ("2016-04-23T18:23:24") to
// second precision. A trailing timezone offset is tolerated and ignored.
func ParseCamtDateTime(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(StripOffset(dateStr))
	t, err := time.Parse(DateTimeLayoutISO, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse datetime %q: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate formats a time according to the given layout, defaulting to
// DateLayoutISO.
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}
