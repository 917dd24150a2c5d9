package timespan

import (
	"regexp"
	"strconv"
	"time"
)

// agoRe matches KQL relative-time filters like ago(90d), ago(12h), ago(30m),
// including those nested inside startofday(ago(30d)) and similar wrappers.
var agoRe = regexp.MustCompile(`(?i)ago\s*\(\s*(\d+)\s*([dhm])\s*\)`)

// Detect scans a KQL query for relative-time filter expressions and returns
// the widest bound found, or zero when the query carries no time filter.
//
// A query may compare timestamps against several ago() bounds; the outer
// window must cover the widest one, otherwise the narrower comparisons would
// silently see truncated data.
func Detect(query string) time.Duration {
	var widest time.Duration

	for _, match := range agoRe.FindAllStringSubmatch(query, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		var d time.Duration
		switch match[2] {
		case "d", "D":
			d = time.Duration(value) * 24 * time.Hour
		case "h", "H":
			d = time.Duration(value) * time.Hour
		case "m", "M":
			d = time.Duration(value) * time.Minute
		}

		if d > widest {
			widest = d
		}
	}

	return widest
}
