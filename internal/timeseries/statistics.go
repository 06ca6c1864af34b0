package timeseries

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Source tells where a 24h figure came from.
type Source string

const (
	SourceLocal       Source = "local"
	SourceFallback    Source = "fallback"
	SourceEstimate    Source = "estimate"
	SourceUnavailable Source = "unavailable"
)

// OfficialViews is the answer of an official-analytics fallback.
type OfficialViews struct {
	ViewsLast24h     int64  `json:"viewsLast24h"`
	WindowDescriptor string `json:"windowDescriptor"`
}

// OfficialViewsFetcher supplies an authoritative trailing-24h view count for a channel.
type OfficialViewsFetcher interface {
	OfficialLast24h(ctx context.Context, channelID, timezone string) (*OfficialViews, error)
}

type AggregateInput struct {
	// Raw is the unfiltered series, or any raw shape NormalizeSeries accepts.
	Raw       any
	Processed Series
	Now       time.Time

	Fallback  OfficialViewsFetcher
	ChannelID string
	Timezone  string
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Summary struct {
	TotalRecords    int        `json:"totalRecords"`
	FilteredRecords int        `json:"filteredRecords"`
	DateRange       *DateRange `json:"dateRange"`
}

// Last24h is the rolling figure with its provenance. Views is nil when unavailable.
type Last24h struct {
	Views            *int64    `json:"views"`
	Source           Source    `json:"source"`
	LocalStatus      Status    `json:"localStatus"`
	WindowHours      *float64  `json:"windowHours,omitempty"`
	Degraded         bool      `json:"degraded,omitempty"`
	WindowDescriptor string    `json:"windowDescriptor,omitempty"`
	Note             string    `json:"note,omitempty"`
	Current          *Snapshot `json:"currentSample,omitempty"`
	Base             *Snapshot `json:"baseSample,omitempty"`
}

type Changes struct {
	TotalChange        *int64           `json:"totalChange"`
	TotalChangePercent *decimal.Decimal `json:"totalChangePercent"`
	TodayChange        *int64           `json:"todayChange"`
	AvgHourlyChange    *int64           `json:"avgHourlyChange"`
}

type Peaks struct {
	MaxViews *int64 `json:"maxViews"`
	MinViews *int64 `json:"minViews"`
	AvgViews *int64 `json:"avgViews"`
	MaxLikes *int64 `json:"maxLikes,omitempty"`
	MinLikes *int64 `json:"minLikes,omitempty"`
	AvgLikes *int64 `json:"avgLikes,omitempty"`
}

// Statistics is always structurally complete; absent figures are nil, never zero.
type Statistics struct {
	Summary     Summary      `json:"summary"`
	Last24h     Last24h      `json:"last24h"`
	TodayGrowth GrowthResult `json:"todayGrowth"`
	Current     *Snapshot    `json:"current"`
	Earliest    *Snapshot    `json:"earliest"`
	Changes     Changes      `json:"changes"`
	Peaks       Peaks        `json:"peaks"`
}

// Aggregate composes the rolling delta, its fallback chain and the reductions over
// in.Processed. It never fails.
func (e *Engine) Aggregate(ctx context.Context, in AggregateInput) *Statistics {
	all, err := e.allSeries(in.Raw)
	if err != nil {
		e.log.Debug("raw series unusable for statistics", zap.Error(err))
	}

	st := &Statistics{}
	st.Summary = Summary{TotalRecords: len(all), FilteredRecords: len(in.Processed)}
	if len(all) > 0 {
		sorted := sortedCopy(all)
		st.Summary.DateRange = &DateRange{
			Start: time.UnixMilli(sorted[0].TimestampMs).UTC(),
			End:   time.UnixMilli(sorted[len(sorted)-1].TimestampMs).UTC(),
		}
	}

	var rolling RollingResult
	if err != nil {
		rolling = RollingResult{Status: Status(reasonOf(err))}
	} else {
		rolling = e.Rolling24h(all, in.Now)
	}
	st.TodayGrowth = CalendarDayGrowth(all, in.Now, e.growthOffset)
	st.Last24h = e.last24h(ctx, in, rolling, st.TodayGrowth)
	if st.TodayGrowth.OK() {
		st.Changes.TodayChange = ptr(st.TodayGrowth.Growth)
	}

	e.reduce(st, in.Processed, in.Now)
	return st
}

func (e *Engine) allSeries(raw any) (Series, error) {
	if s, ok := raw.(Series); ok {
		return s, nil
	}
	if raw == nil {
		return nil, ErrNoValidData
	}
	return e.NormalizeSeries(raw)
}

func reasonOf(err error) string {
	if fe, ok := err.(*FormatError); ok {
		return fe.Reason
	}
	return ReasonInvalidFormat
}

func (e *Engine) last24h(ctx context.Context, in AggregateInput, rolling RollingResult, growth GrowthResult) Last24h {
	out := Last24h{LocalStatus: rolling.Status}
	if rolling.OK() {
		out.Views = ptr(rolling.DeltaViews)
		out.Source = SourceLocal
		out.WindowHours = ptr(rolling.WindowHours)
		out.Degraded = rolling.Degraded
		out.Current, out.Base = rolling.Current, rolling.Base
		return out
	}

	if in.Fallback != nil {
		official, err := e.callFallback(ctx, in)
		if err == nil && official != nil {
			out.Views = ptr(official.ViewsLast24h)
			out.Source = SourceFallback
			out.WindowDescriptor = official.WindowDescriptor
			return out
		}
		e.log.Warn("official 24h fallback failed",
			zap.String("channel_id", in.ChannelID),
			zap.String("local_status", string(rolling.Status)),
			zap.Error(err))
	}

	if growth.OK() {
		out.Views = ptr(growth.Growth)
		out.Source = SourceEstimate
		out.Note = fmt.Sprintf("estimate: growth since %s over %d samples, less than 24h of history",
			growth.DayStart.Format(time.RFC3339), growth.SampleCount)
		out.Current, out.Base = growth.Last, growth.First
		return out
	}

	out.Source = SourceUnavailable
	return out
}

// callFallback invokes the fetcher once, bounded by the engine timeout. Errors and panics
// are returned as errors.
func (e *Engine) callFallback(ctx context.Context, in AggregateInput) (*OfficialViews, error) {
	ctx, cancel := context.WithTimeout(ctx, e.fallbackTimeout)
	defer cancel()

	type outcome struct {
		views *OfficialViews
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("official views fallback panicked: %v", r)}
			}
		}()
		v, err := in.Fallback.OfficialLast24h(ctx, in.ChannelID, in.Timezone)
		done <- outcome{views: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil && o.views == nil {
			return nil, fmt.Errorf("official views fallback returned no data")
		}
		return o.views, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) reduce(st *Statistics, processed Series, now time.Time) {
	if len(processed) == 0 {
		return
	}
	sorted := sortedCopy(processed)
	first, last := sorted[0], sorted[len(sorted)-1]
	st.Earliest, st.Current = &first, &last

	change := last.ViewsTotal - first.ViewsTotal
	st.Changes.TotalChange = ptr(change)
	if first.ViewsTotal != 0 {
		pct := decimal.NewFromInt(change).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(first.ViewsTotal)).
			Round(2)
		st.Changes.TotalChangePercent = &pct
	}

	var recent Series
	cutoff := now.UnixMilli() - day.Milliseconds()
	for _, sn := range sorted {
		if sn.TimestampMs > cutoff {
			recent = append(recent, sn)
		}
	}
	if len(recent) > 1 {
		avg := roundedMean(recent[len(recent)-1].ViewsTotal-recent[0].ViewsTotal, int64(len(recent)-1))
		st.Changes.AvgHourlyChange = &avg
	}

	maxV, minV, sumV := first.ViewsTotal, first.ViewsTotal, int64(0)
	var maxL, minL *int64
	var sumL, nL int64
	for _, sn := range sorted {
		maxV = max(maxV, sn.ViewsTotal)
		minV = min(minV, sn.ViewsTotal)
		sumV += sn.ViewsTotal
		if sn.LikesTotal == nil {
			continue
		}
		l := *sn.LikesTotal
		if maxL == nil || l > *maxL {
			maxL = ptr(l)
		}
		if minL == nil || l < *minL {
			minL = ptr(l)
		}
		sumL += l
		nL++
	}
	st.Peaks.MaxViews, st.Peaks.MinViews = ptr(maxV), ptr(minV)
	st.Peaks.AvgViews = ptr(roundedMean(sumV, int64(len(sorted))))
	if nL > 0 {
		st.Peaks.MaxLikes, st.Peaks.MinLikes = maxL, minL
		st.Peaks.AvgLikes = ptr(roundedMean(sumL, nL))
	}
}

// roundedMean is sum/n rounded half away from zero.
func roundedMean(sum, n int64) int64 {
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(n)).Round(0).IntPart()
}

func ptr[T any](v T) *T { return &v }
