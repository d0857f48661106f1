package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DateTimeLocalLayout is the value format of an HTML datetime-local input
const DateTimeLocalLayout = "2006-01-02T15:04"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDateTimeLocal parses a datetime-local value in loc. Seconds are accepted.
func ParseDateTimeLocal(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLocalLayout, value, loc)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation(DateTimeLocalLayout+":05", value, loc)
}

// FormatDateTimeLocal formats t for a datetime-local input, empty for the zero time
func FormatDateTimeLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLocalLayout)
}
