package timespan

import (
	"fmt"
	"strings"
	"time"
)

// FormatISO8601 renders a duration as an ISO 8601 duration string using day,
// hour, minute, and second components (P7D, PT12H, P1DT6H30M). Non-positive
// durations render as PT0S.
func FormatISO8601(d time.Duration) string {
	if d <= 0 {
		return "PT0S"
	}

	days := int64(d / (24 * time.Hour))
	rem := d % (24 * time.Hour)
	hours := int64(rem / time.Hour)
	rem %= time.Hour
	minutes := int64(rem / time.Minute)
	rem %= time.Minute
	seconds := int64(rem / time.Second)

	var b strings.Builder
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 || seconds > 0 {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
		if seconds > 0 {
			fmt.Fprintf(&b, "%dS", seconds)
		}
	}
	return b.String()
}
