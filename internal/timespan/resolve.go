// Package timespan reconciles the three sources of "how much history to
// query" — an explicit caller-supplied timespan, time filters embedded in the
// query text, and a conservative default — into one bounded window.
package timespan

import (
	"fmt"
	"time"
)

// Source records where a resolved timespan came from.
type Source string

const (
	// SourceExplicit means the caller supplied the timespan directly.
	SourceExplicit Source = "explicit"
	// SourceAutoDetected means the timespan was derived from time filters in
	// the query text, plus a safety buffer.
	SourceAutoDetected Source = "auto-detected"
	// SourceDefault means neither the caller nor the query stated a window
	// and the conservative default was used.
	SourceDefault Source = "default"
)

// Options holds the resolver tunables. Zero fields fall back to the
// documented defaults, so Options{} behaves like DefaultOptions().
type Options struct {
	// Default is the window used when nothing states one. Default: 7 days.
	Default time.Duration
	// Ceiling is the size above which a resolved window gets a "large
	// window" warning. Default: 90 days. Never an error: backend-side
	// retention does the actual clamping.
	Ceiling time.Duration
	// BufferPercent is the safety buffer added to auto-detected windows so
	// clock skew or query evaluation time does not truncate intended
	// results. Default: 10.
	BufferPercent int
	// MinBuffer is the floor for that buffer. Default: 1 day.
	MinBuffer time.Duration
}

// DefaultOptions returns the documented resolver defaults.
func DefaultOptions() Options {
	return Options{
		Default:       7 * 24 * time.Hour,
		Ceiling:       90 * 24 * time.Hour,
		BufferPercent: 10,
		MinBuffer:     24 * time.Hour,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Default <= 0 {
		o.Default = def.Default
	}
	if o.Ceiling <= 0 {
		o.Ceiling = def.Ceiling
	}
	if o.BufferPercent <= 0 {
		o.BufferPercent = def.BufferPercent
	}
	if o.MinBuffer <= 0 {
		o.MinBuffer = def.MinBuffer
	}
	return o
}

// Spec is one resolved timespan. It is constructed fresh per query
// invocation and never persisted.
type Spec struct {
	// Raw is the caller-supplied literal, empty unless Source is explicit.
	Raw string
	// Duration is the resolved canonical window. Always positive.
	Duration time.Duration
	// Source records how the window was chosen.
	Source Source
	// Buffered is true when a safety buffer was added to a detected window.
	Buffered bool
	// Warnings are non-fatal observations (large window, query filter wider
	// than the explicit bound). They never replace a successful resolution.
	Warnings []string
}

// Resolve turns an optional explicit timespan plus the query text into a
// canonical bounded window.
//
// Priority order: an explicit timespan always wins (a malformed one fails
// outright, it is never silently replaced); otherwise the widest time filter
// detected in the query, widened by the safety buffer; otherwise the
// conservative default.
func Resolve(explicit, query string, opts Options) (Spec, error) {
	opts = opts.withDefaults()

	var spec Spec
	detected := Detect(query)

	switch {
	case explicit != "":
		d, err := Parse(explicit)
		if err != nil {
			return Spec{}, err
		}
		spec = Spec{Raw: explicit, Duration: d, Source: SourceExplicit}
		// The explicit value is the outer bound the caller asked for, even
		// when the query itself reaches further back.
		if detected > d {
			spec.Warnings = append(spec.Warnings, fmt.Sprintf(
				"Query contains a time filter of %s, wider than the explicit timespan '%s'; rows older than the timespan will not be returned",
				FormatISO8601(detected), explicit))
		}

	case detected > 0:
		buffer := detected * time.Duration(opts.BufferPercent) / 100
		if buffer < opts.MinBuffer {
			buffer = opts.MinBuffer
		}
		spec = Spec{Duration: detected + buffer, Source: SourceAutoDetected, Buffered: true}

	default:
		spec = Spec{Duration: opts.Default, Source: SourceDefault}
	}

	if spec.Duration > opts.Ceiling {
		spec.Warnings = append(spec.Warnings, fmt.Sprintf(
			"Large time window requested (%s); the query may be slow and results may be clamped by workspace retention",
			FormatISO8601(spec.Duration)))
	}

	return spec, nil
}

// TimeInterval returns the wire representation of the resolved window: an
// ISO 8601 duration, which is what the Azure Monitor query API expects as a
// timespan.
func (s Spec) TimeInterval() string {
	return FormatISO8601(s.Duration)
}
