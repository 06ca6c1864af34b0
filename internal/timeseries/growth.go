package timeseries

import "time"

// GrowthResult is the net view change inside one fixed-offset calendar day.
type GrowthResult struct {
	Status      Status    `json:"status"`
	Growth      int64     `json:"growth"`
	First       *Snapshot `json:"firstSample,omitempty"`
	Last        *Snapshot `json:"lastSample,omitempty"`
	SampleCount int       `json:"sampleCount"`
	DayStart    time.Time `json:"dayStart"`
	DayEnd      time.Time `json:"dayEnd"`
}

func (r GrowthResult) OK() bool { return r.Status == StatusOK }

// DayWindow returns [start, end) of the civil day containing now at the given UTC offset.
func DayWindow(now time.Time, offset time.Duration) (time.Time, time.Time) {
	dayMs := day.Milliseconds()
	offMs := offset.Milliseconds()
	local := now.UnixMilli() + offMs
	startMs := floorDiv(local, dayMs)*dayMs - offMs
	return time.UnixMilli(startMs).UTC(), time.UnixMilli(startMs + dayMs).UTC()
}

// CalendarDayGrowth computes last minus first views among samples inside today's window,
// clamped at zero. Fewer than two samples in the window yield StatusInsufficientData.
func CalendarDayGrowth(s Series, now time.Time, offset time.Duration) GrowthResult {
	start, end := DayWindow(now, offset)
	startMs, endMs := start.UnixMilli(), end.UnixMilli()

	today := make(Series, 0, len(s))
	for _, sn := range sortedCopy(s) {
		if sn.TimestampMs >= startMs && sn.TimestampMs < endMs {
			today = append(today, sn)
		}
	}
	res := GrowthResult{SampleCount: len(today), DayStart: start, DayEnd: end}
	if len(today) < 2 {
		res.Status = StatusInsufficientData
		return res
	}
	first, last := today[0], today[len(today)-1]
	res.Status = StatusOK
	res.First, res.Last = &first, &last
	if g := last.ViewsTotal - first.ViewsTotal; g > 0 {
		res.Growth = g
	}
	return res
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
