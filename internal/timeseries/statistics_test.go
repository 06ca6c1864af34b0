package timeseries

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOfficial struct {
	calls atomic.Int32
	fn    func(ctx context.Context) (*OfficialViews, error)
}

func (f *fakeOfficial) OfficialLast24h(ctx context.Context, channelID, timezone string) (*OfficialViews, error) {
	f.calls.Add(1)
	return f.fn(ctx)
}

func TestAggregate_LocalRolling(t *testing.T) {
	e := newTestEngine()
	h := msPerHour
	n := fixedNowMs
	all := snaps(n-48*h, 1000, n-24*h, 1200, n-12*h, 1400, n, 1700)
	fb := &fakeOfficial{fn: func(context.Context) (*OfficialViews, error) { return &OfficialViews{ViewsLast24h: 1}, nil }}

	st := e.Aggregate(context.Background(), AggregateInput{
		Raw:       all,
		Processed: all[2:],
		Now:       time.UnixMilli(n),
		Fallback:  fb,
	})

	require.NotNil(t, st.Last24h.Views)
	assert.Equal(t, int64(500), *st.Last24h.Views)
	assert.Equal(t, SourceLocal, st.Last24h.Source)
	assert.Equal(t, StatusOK, st.Last24h.LocalStatus)
	assert.EqualValues(t, 0, fb.calls.Load())

	assert.Equal(t, 4, st.Summary.TotalRecords)
	assert.Equal(t, 2, st.Summary.FilteredRecords)
	require.NotNil(t, st.Summary.DateRange)
	assert.Equal(t, n-48*h, st.Summary.DateRange.Start.UnixMilli())
}

func TestAggregate_FallbackBeforeEstimate(t *testing.T) {
	e := newTestEngine()
	single := snaps(fixedNowMs, 1700)
	fb := &fakeOfficial{fn: func(context.Context) (*OfficialViews, error) {
		return &OfficialViews{ViewsLast24h: 500, WindowDescriptor: "2023-12-31"}, nil
	}}

	st := e.Aggregate(context.Background(), AggregateInput{
		Raw: single, Processed: single, Now: time.UnixMilli(fixedNowMs),
		Fallback: fb, ChannelID: "UC1", Timezone: "America/Los_Angeles",
	})

	require.NotNil(t, st.Last24h.Views)
	assert.Equal(t, int64(500), *st.Last24h.Views)
	assert.Equal(t, SourceFallback, st.Last24h.Source)
	assert.Equal(t, StatusInsufficientData, st.Last24h.LocalStatus)
	assert.Equal(t, "2023-12-31", st.Last24h.WindowDescriptor)
	assert.EqualValues(t, 1, fb.calls.Load())
}

func TestAggregate_FallbackFailuresAreContained(t *testing.T) {
	single := snaps(fixedNowMs, 1700)
	tests := []struct {
		name string
		fn   func(ctx context.Context) (*OfficialViews, error)
	}{
		{"error", func(context.Context) (*OfficialViews, error) { return nil, errors.New("boom") }},
		{"nil result", func(context.Context) (*OfficialViews, error) { return nil, nil }},
		{"panic", func(context.Context) (*OfficialViews, error) { panic("adapter bug") }},
		{"timeout", func(context.Context) (*OfficialViews, error) {
			time.Sleep(500 * time.Millisecond)
			return &OfficialViews{ViewsLast24h: 1}, nil
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(zap.NewNop(), DefaultGrowthOffset, 20*time.Millisecond)
			fb := &fakeOfficial{fn: tc.fn}

			st := e.Aggregate(context.Background(), AggregateInput{
				Raw: single, Processed: single, Now: time.UnixMilli(fixedNowMs), Fallback: fb,
			})

			require.NotNil(t, st)
			assert.Nil(t, st.Last24h.Views)
			assert.Equal(t, SourceUnavailable, st.Last24h.Source)
			assert.EqualValues(t, 1, fb.calls.Load())
		})
	}
}

func TestLast24h_EstimateTier(t *testing.T) {
	e := newTestEngine()
	dayStart := at("2023-12-31T16:00:00Z")
	growth := CalendarDayGrowth(snaps(dayStart, 1000, dayStart+6*msPerHour, 1250), time.UnixMilli(fixedNowMs), DefaultGrowthOffset)
	require.True(t, growth.OK())

	out := e.last24h(context.Background(), AggregateInput{}, RollingResult{Status: StatusNoBaseFound}, growth)
	require.NotNil(t, out.Views)
	assert.Equal(t, int64(250), *out.Views)
	assert.Equal(t, SourceEstimate, out.Source)
	assert.NotEmpty(t, out.Note)
}

func TestAggregate_Reductions(t *testing.T) {
	e := newTestEngine()
	h := msPerHour
	n := fixedNowMs
	l10, l30 := int64(10), int64(30)
	processed := Series{
		{TimestampMs: n - 2*h, ViewsTotal: 1000},
		{TimestampMs: n - h, ViewsTotal: 1200, LikesTotal: &l10},
		{TimestampMs: n, ViewsTotal: 1500, LikesTotal: &l30},
	}

	st := e.Aggregate(context.Background(), AggregateInput{Raw: processed, Processed: processed, Now: time.UnixMilli(n)})

	require.NotNil(t, st.Current)
	assert.Equal(t, int64(1500), st.Current.ViewsTotal)
	assert.Equal(t, int64(1000), st.Earliest.ViewsTotal)
	assert.Equal(t, int64(500), *st.Changes.TotalChange)
	require.NotNil(t, st.Changes.TotalChangePercent)
	assert.True(t, st.Changes.TotalChangePercent.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(250), *st.Changes.AvgHourlyChange)

	assert.Equal(t, int64(1500), *st.Peaks.MaxViews)
	assert.Equal(t, int64(1000), *st.Peaks.MinViews)
	assert.Equal(t, int64(1233), *st.Peaks.AvgViews)
	assert.Equal(t, int64(30), *st.Peaks.MaxLikes)
	assert.Equal(t, int64(10), *st.Peaks.MinLikes)
	assert.Equal(t, int64(20), *st.Peaks.AvgLikes)
}

func TestAggregate_PercentRoundingAndZeroBase(t *testing.T) {
	e := newTestEngine()
	now := time.UnixMilli(fixedNowMs)

	st := e.Aggregate(context.Background(), AggregateInput{Processed: snaps(1, 300, 2, 400), Now: now})
	require.NotNil(t, st.Changes.TotalChangePercent)
	assert.Equal(t, "33.33", st.Changes.TotalChangePercent.StringFixed(2))
	assert.Nil(t, st.Peaks.MaxLikes)

	st = e.Aggregate(context.Background(), AggregateInput{Processed: snaps(1, 0, 2, 400), Now: now})
	assert.Equal(t, int64(400), *st.Changes.TotalChange)
	assert.Nil(t, st.Changes.TotalChangePercent)
}

func TestAggregate_NeverFailsOnBadInput(t *testing.T) {
	e := newTestEngine()
	st := e.Aggregate(context.Background(), AggregateInput{Raw: "garbage", Now: time.UnixMilli(fixedNowMs)})

	require.NotNil(t, st)
	assert.Equal(t, StatusInvalidFormat, st.Last24h.LocalStatus)
	assert.Equal(t, SourceUnavailable, st.Last24h.Source)
	assert.Nil(t, st.Last24h.Views)
	assert.Nil(t, st.Current)
	assert.Nil(t, st.Changes.TotalChange)
	assert.Nil(t, st.Summary.DateRange)
	assert.Equal(t, StatusInsufficientData, st.TodayGrowth.Status)
}
