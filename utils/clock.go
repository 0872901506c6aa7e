package utils

import (
	"fmt"
	"time"
)

// NormalizeClockTime parses a time-of-day given as "HH:MM" or "HH:MM:SS"
// and returns it as "HH:MM:SS". Normalized values compare correctly as
// plain strings, which is how opening-hours intervals are stored.
func NormalizeClockTime(value string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM or HH:MM:SS", value)
}
