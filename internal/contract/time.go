package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units]".
var periodDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// ParsePeriodDuration converts strings like "7 days" or "168h" into a single
// time.Duration. It first tries Go's built-in time.ParseDuration for standard
// formats, then falls back to custom parsing for human-readable formats.
// Bucket boundaries are computed in whole seconds, so periods must be a whole
// number of seconds; anything finer is rejected rather than truncated.
func ParsePeriodDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "168h", "30m")
	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("period must be positive")
		}
		if duration%time.Second != 0 {
			return 0, errors.New("period must be a whole number of seconds")
		}
		return duration, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "7 days", "2 weeks")
	s = strings.ToLower(s)
	matches := periodDurationRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid period format: %s", s)
	}

	// 1: Value (e.g., "7")
	// 2: Unit (e.g., "day" or "week")
	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var totalDuration time.Duration

	switch unit {
	case "year":
		// Approximation: 1 year ≈ 365 days
		totalDuration = time.Duration(value) * 365 * 24 * time.Hour
	case "month":
		// Approximation: 1 month ≈ 30 days
		totalDuration = time.Duration(value) * 30 * 24 * time.Hour
	case "week":
		totalDuration = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		totalDuration = time.Duration(value) * 24 * time.Hour
	case "hour":
		totalDuration = time.Duration(value) * time.Hour
	case "minute":
		totalDuration = time.Duration(value) * time.Minute
	default:
		// Should be caught by the regex
		return 0, errors.New("unsupported time unit")
	}

	if totalDuration == 0 {
		return 0, errors.New("period must be positive")
	}

	return totalDuration, nil
}

// BucketStart truncates a timestamp down to the start of its bucket, measured
// as whole periods since the Unix epoch. Every event inside the same bucket
// maps to the same start time.
func BucketStart(t time.Time, period time.Duration) time.Time {
	secs := t.Unix()
	width := int64(period / time.Second)
	start := (secs / width) * width
	if secs < 0 && secs%width != 0 {
		start -= width
	}
	return time.Unix(start, 0).UTC()
}
