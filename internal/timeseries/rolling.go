package timeseries

import (
	"time"

	"go.uber.org/zap"
)

type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = ReasonInsufficientData
	StatusInvalidFormat    Status = ReasonInvalidFormat
	StatusNoValidData      Status = ReasonNoValidData
	StatusNoBaseFound      Status = ReasonNoBaseFound
)

const (
	day = 24 * time.Hour

	// A base whose window is shorter than this triggers the backward search.
	correctionWindowHours = 23.5
	// Windows shorter than this are reported as degraded.
	degradedWindowHours = 22.0
)

// RollingResult is the trailing 24h view delta. Current, Base and WindowHours are set only
// when Status is StatusOK; Count only for StatusInsufficientData.
type RollingResult struct {
	Status      Status    `json:"status"`
	Count       int       `json:"count,omitempty"`
	DeltaViews  int64     `json:"deltaViews"`
	Current     *Snapshot `json:"currentSample,omitempty"`
	Base        *Snapshot `json:"baseSample,omitempty"`
	WindowHours float64   `json:"windowHours,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
}

func (r RollingResult) OK() bool { return r.Status == StatusOK }

// Rolling24hFrom normalizes raw (any shape NormalizeSeries accepts) and computes the
// rolling delta, mapping normalization errors onto result statuses.
func (e *Engine) Rolling24hFrom(raw any, now time.Time) RollingResult {
	s, err := e.NormalizeSeries(raw)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			return RollingResult{Status: Status(fe.Reason)}
		}
		return RollingResult{Status: StatusInvalidFormat}
	}
	return e.Rolling24h(s, now)
}

// Rolling24h computes the view delta between the latest sample at or before now and the
// sample nearest to now-24h.
func (e *Engine) Rolling24h(s Series, now time.Time) RollingResult {
	if len(s) < 2 {
		return RollingResult{Status: StatusInsufficientData, Count: len(s)}
	}
	sorted := sortedCopy(s)
	nowMs := now.UnixMilli()
	boundary := nowMs - day.Milliseconds()

	current := &sorted[len(sorted)-1]
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].TimestampMs <= nowMs {
			current = &sorted[i]
			break
		}
	}

	var base *Snapshot
	var bestDiff int64
	for i := range sorted {
		diff := abs64(sorted[i].TimestampMs - boundary)
		if base == nil || diff < bestDiff {
			base, bestDiff = &sorted[i], diff
		}
	}
	if base == nil {
		return RollingResult{Status: StatusNoBaseFound}
	}

	window := windowHours(current, base)
	if window < correctionWindowHours {
		var before *Snapshot
		for i := range sorted {
			if sorted[i].TimestampMs >= boundary {
				break
			}
			before = &sorted[i]
		}
		if before != nil {
			if w := windowHours(current, before); w >= correctionWindowHours {
				base, window = before, w
			}
		}
	}

	res := RollingResult{Status: StatusOK, WindowHours: window}
	if window < degradedWindowHours {
		res.Degraded = true
		e.log.Warn("rolling 24h window is narrower than expected",
			zap.Float64("window_hours", window),
			zap.Int("samples", len(sorted)))
	}

	delta := current.ViewsTotal - base.ViewsTotal
	if delta < 0 {
		e.log.Warn("negative 24h view delta clamped to zero",
			zap.Int64("delta", delta),
			zap.Int64("current_ts", current.TimestampMs),
			zap.Int64("base_ts", base.TimestampMs))
		delta = 0
	}
	res.DeltaViews = delta

	cur, b := *current, *base
	res.Current, res.Base = &cur, &b
	return res
}

func windowHours(current, base *Snapshot) float64 {
	return float64(current.TimestampMs-base.TimestampMs) / float64(msPerHour)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
