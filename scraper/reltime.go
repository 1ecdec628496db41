package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Relative-time labels come in two shapes: the compact timeline form
// ("2h", "45m") and the spelled-out accessibility form ("2 hours ago").
var (
	relShort = regexp.MustCompile(`^(\d+)\s*([smhd])$`)
	relLong  = regexp.MustCompile(`^(\d+)\s+(second|minute|hour|day)s?(?:\s+ago)?$`)
)

var relUnits = map[string]time.Duration{
	"s": time.Second, "second": time.Second,
	"m": time.Minute, "minute": time.Minute,
	"h": time.Hour, "hour": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour,
}

// ParseRelativeTime derives an absolute instant from a relative-time
// label, as an offset back from now. The second return is false when the
// label is not a recognized relative form (e.g. "Mar 3").
func ParseRelativeTime(label string, now time.Time) (time.Time, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return time.Time{}, false
	}

	m := relShort.FindStringSubmatch(label)
	if m == nil {
		m = relLong.FindStringSubmatch(label)
	}
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	unit, ok := relUnits[m[2]]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(n) * unit), true
}

// IsRelativeTimeLabel reports whether the text is a bare relative-time
// label, used to reject time chrome masquerading as post body text.
func IsRelativeTimeLabel(text string) bool {
	_, ok := ParseRelativeTime(text, time.Time{})
	return ok
}
