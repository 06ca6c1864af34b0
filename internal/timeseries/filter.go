package timeseries

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const msPerHour = int64(time.Hour / time.Millisecond)

// FilterByRange keeps entries strictly newer than now minus hours. A non-positive or
// non-finite hours value means "all" and returns a copy of s.
func FilterByRange(s Series, now time.Time, hours float64) Series {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return append(Series(nil), s...)
	}
	cutoff := float64(now.UnixMilli()) - hours*float64(msPerHour)
	out := make(Series, 0, len(s))
	for _, sn := range s {
		if float64(sn.TimestampMs) > cutoff {
			out = append(out, sn)
		}
	}
	return out
}

// ParseRangeHours reads a range query value. "all", empty and non-numeric values yield 0.
// Like a leading-integer parse, "48h" reads as 48.
func ParseRangeHours(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return 0
	}
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return float64(n)
}
