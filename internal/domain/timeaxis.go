package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// unixEpochJulianDay is the Julian day number of 1970-01-01T00:00:00Z.
const unixEpochJulianDay = 2440587.5

// Decoded times must fall in years 1 through 9999.
var (
	minTimeMillis = float64(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxTimeMillis = float64(time.Date(9999, 12, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli())
)

var referenceLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Times converts a time axis to UTC timestamps. Units of the CF form
// "<unit> since <reference>" are honoured; anything else, including EPIC's
// "True Julian Day", is read as Julian day numbers.
func Times(axis Axis) ([]time.Time, error) {
	units := strings.ToLower(strings.TrimSpace(axis.Units))
	stepMillis, ref, err := parseTimeUnits(units)
	if err != nil {
		return nil, fmt.Errorf("time axis %q: %w", axis.Name, err)
	}

	out := make([]time.Time, len(axis.Values))
	for i, v := range axis.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("time axis %q: non-finite value at index %d", axis.Name, i)
		}
		ms := math.Round(float64(ref) + v*stepMillis)
		if ms < minTimeMillis || ms > maxTimeMillis {
			return nil, fmt.Errorf("time axis %q: value %g at index %d is outside years 1 to 9999", axis.Name, v, i)
		}
		out[i] = time.UnixMilli(int64(ms)).UTC()
	}
	return out, nil
}

// parseTimeUnits returns the length of one unit in milliseconds and the
// reference instant in Unix milliseconds.
func parseTimeUnits(units string) (float64, int64, error) {
	unit, refText, found := strings.Cut(units, " since ")
	if !found {
		return 86400e3, int64(-unixEpochJulianDay * 86400e3), nil
	}

	var step time.Duration
	switch strings.TrimSpace(unit) {
	case "days", "day", "d":
		step = 24 * time.Hour
	case "hours", "hour", "hrs", "hr", "h":
		step = time.Hour
	case "minutes", "minute", "mins", "min":
		step = time.Minute
	case "seconds", "second", "secs", "sec", "s":
		step = time.Second
	default:
		return 0, 0, fmt.Errorf("unsupported time unit %q", unit)
	}

	refText = strings.ToUpper(strings.TrimSpace(refText))
	refText = strings.TrimSuffix(refText, " UTC")
	for _, layout := range referenceLayouts {
		if ref, err := time.Parse(layout, refText); err == nil {
			return float64(step.Milliseconds()), ref.UnixMilli(), nil
		}
	}
	return 0, 0, fmt.Errorf("unparseable reference time %q", refText)
}
