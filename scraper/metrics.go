package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// metricToken pulls the leading numeric token (with optional suffix) out
// of a control's text or aria-label, e.g. "1.2K" from "1.2K Likes".
var metricToken = regexp.MustCompile(`([0-9][0-9.,]*)\s*([KkMmBb]?)`)

// ParseMetric converts an engagement counter as rendered ("1,234",
// "1.2K", "3M") into an integer, expanding suffix multipliers and
// stripping thousands separators. Missing or unparseable input is 0;
// counters are never negative.
func ParseMetric(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	m := metricToken.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	number := strings.ReplaceAll(m[1], ",", "")
	multiplier := 1.0
	switch strings.ToUpper(m[2]) {
	case "K":
		multiplier = 1_000
	case "M":
		multiplier = 1_000_000
	case "B":
		multiplier = 1_000_000_000
	}

	f, err := strconv.ParseFloat(number, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(math.Round(f * multiplier))
}
