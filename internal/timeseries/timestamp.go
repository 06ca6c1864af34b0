package timeseries

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Layouts accepted for string timestamps, tried in order. Zoneless layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeTimestamp converts an epoch-millis number or an ISO-8601 string into epoch millis.
// The second result is false for nil, empty or unparseable strings, fractional or negative
// numbers and any other type.
func NormalizeTimestamp(v any) (int64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		return nonNegative(int64(x))
	case int32:
		return nonNegative(int64(x))
	case int64:
		return nonNegative(x)
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return nonNegative(n)
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	case string:
		return parseTimestamp(x)
	default:
		return 0, false
	}
}

func parseTimestamp(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return nonNegative(t.UnixMilli())
		}
	}
	return 0, false
}

func fromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false
	}
	return nonNegative(int64(f))
}

func nonNegative(n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	return n, true
}
