package timespan

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimespan indicates a timespan literal that matches neither the
// simple form ("90d", "12h", "30m") nor the ISO 8601 duration form ("P90D",
// "PT4H", "P1DT12H"). Callers test with errors.Is; the wrapped message always
// names the offending literal.
var ErrInvalidTimespan = errors.New("invalid timespan format")

var (
	simpleRe = regexp.MustCompile(`^(\d+)([dhm])$`)
	// P[nW][nD][T[nH][nM][nS]] - weeks, days, hours, minutes, seconds.
	// Calendar components (years, months) are ambiguous and rejected.
	isoRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)
)

// Parse converts a timespan string into a duration.
//
// Two grammars are accepted:
//   - Simple form: an integer followed by d, h, or m ("90d", "12h", "30m").
//   - ISO 8601 duration: "P90D", "PT4H", "P1DT12H", "P7DT6H30M".
//
// Anything else fails with ErrInvalidTimespan. Zero durations are rejected:
// an explicit timespan that selects no history at all is a caller mistake,
// not a valid window.
func Parse(timespan string) (time.Duration, error) {
	trimmed := strings.TrimSpace(timespan)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty timespan provided", ErrInvalidTimespan)
	}

	if strings.HasPrefix(strings.ToUpper(trimmed), "P") {
		return parseISO8601(trimmed)
	}
	return parseSimple(trimmed)
}

func parseSimple(timespan string) (time.Duration, error) {
	match := simpleRe.FindStringSubmatch(strings.ToLower(timespan))
	if match == nil {
		return 0, fmt.Errorf("%w: '%s'. Use formats like '90d', '12h', '30m', or ISO 8601 like 'P90D', 'PT4H'", ErrInvalidTimespan, timespan)
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: '%s': %v", ErrInvalidTimespan, timespan, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: '%s': timespan value must be positive", ErrInvalidTimespan, timespan)
	}

	switch match[2] {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	}
	return 0, fmt.Errorf("%w: '%s': unknown unit '%s'", ErrInvalidTimespan, timespan, match[2])
}

func parseISO8601(duration string) (time.Duration, error) {
	match := isoRe.FindStringSubmatch(strings.ToUpper(duration))
	if match == nil {
		return 0, fmt.Errorf("%w: '%s'. Expected an ISO 8601 duration like P90D, PT4H, P1DT12H", ErrInvalidTimespan, duration)
	}

	var total time.Duration
	units := []time.Duration{
		7 * 24 * time.Hour, // weeks
		24 * time.Hour,     // days
		time.Hour,
		time.Minute,
		time.Second,
	}
	for i, unit := range units {
		if match[i+1] == "" {
			continue
		}
		value, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: '%s': %v", ErrInvalidTimespan, duration, err)
		}
		total += time.Duration(value) * unit
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: '%s' specifies zero duration", ErrInvalidTimespan, duration)
	}
	return total, nil
}
