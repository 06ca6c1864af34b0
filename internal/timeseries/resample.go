package timeseries

import (
	"sort"
	"strings"
	"time"
)

type Granularity string

const (
	GranularityRaw    Granularity = "raw"
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
)

// ParseGranularity maps a query value onto a granularity; unknown values are raw.
func ParseGranularity(s string) Granularity {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityHourly:
		return GranularityHourly
	case GranularityDaily:
		return GranularityDaily
	default:
		return GranularityRaw
	}
}

type bucketKey struct {
	year  int
	month time.Month
	day   int
	hour  int
}

// Resample keeps the latest entry of every calendar hour or day of loc (time.Local when nil)
// and returns them in ascending timestamp order. GranularityRaw returns a copy of s.
func Resample(s Series, g Granularity, loc *time.Location) Series {
	if g != GranularityHourly && g != GranularityDaily {
		return append(Series(nil), s...)
	}
	if len(s) == 0 {
		return Series{}
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := sortedCopy(s)
	slot := make(map[bucketKey]int, len(sorted))
	out := make(Series, 0, len(sorted))
	for _, sn := range sorted {
		t := time.UnixMilli(sn.TimestampMs).In(loc)
		k := bucketKey{year: t.Year(), month: t.Month(), day: t.Day()}
		if g == GranularityHourly {
			k.hour = t.Hour()
		}
		if i, ok := slot[k]; ok {
			out[i] = sn
			continue
		}
		slot[k] = len(out)
		out = append(out, sn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out
}
