package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/service/mocks"
	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var chartNow = time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

const trackedID = "m2ANkjMRuXc"

type stubOfficial struct {
	views *timeseries.OfficialViews
	err   error
	calls int
}

func (s *stubOfficial) OfficialLast24h(context.Context, string, string) (*timeseries.OfficialViews, error) {
	s.calls++
	return s.views, s.err
}

func newTestChart(t *testing.T, store BlobStore, official timeseries.OfficialViewsFetcher, cfg ChartConfig) *ChartService {
	t.Helper()
	ctrl := gomock.NewController(t)
	videos := mocks.NewMockVideoSource(ctrl)
	videos.EXPECT().List(gomock.Any()).Return(entity.VideoList{
		Videos: []entity.Video{{ID: trackedID, Name: "main"}, {ID: "NReeTQ3YTAU", Name: "second"}},
		Source: entity.VideoSourceUser,
	}, nil).AnyTimes()
	if cfg.ResampleLocation == nil {
		cfg.ResampleLocation = time.UTC
	}
	engine := timeseries.NewEngine(zap.NewNop(), timeseries.DefaultGrowthOffset, time.Second)
	return NewChartService(zap.NewNop(), store, videos, engine, official, cfg).
		WithClock(func() time.Time { return chartNow })
}

// hourlySeries returns n snapshots one hour apart ending at chartNow, +100 views per hour.
func hourlySeries(n int) timeseries.Series {
	s := make(timeseries.Series, 0, n)
	for i := n - 1; i >= 0; i-- {
		s = append(s, timeseries.Snapshot{
			TimestampMs: chartNow.Add(-time.Duration(i) * time.Hour).UnixMilli(),
			ViewsTotal:  int64(10000 - i*100),
		})
	}
	return s
}

func TestChartService_RejectsBadVideoID(t *testing.T) {
	c := newTestChart(t, newMemStore(), nil, ChartConfig{})

	_, err := c.Query(context.Background(), entity.ChartQuery{VideoID: "bad id"})
	assert.ErrorIs(t, err, ErrInvalidVideoID)
}

func TestChartService_RejectsUntrackedVideo(t *testing.T) {
	c := newTestChart(t, newMemStore(), nil, ChartConfig{})

	_, err := c.Query(context.Background(), entity.ChartQuery{VideoID: "bobUT-j6PeQ"})
	require.ErrorIs(t, err, ErrVideoNotTracked)
	var nt *NotTrackedError
	require.ErrorAs(t, err, &nt)
	assert.Equal(t, []string{trackedID, "NReeTQ3YTAU"}, nt.Available)
}

func TestChartService_RawRangeAndLimit(t *testing.T) {
	store := newMemStore()
	store.set(DataKey(trackedID), entity.SnapshotFile{VideoID: trackedID, Snapshots: hourlySeries(48)})
	c := newTestChart(t, store, nil, ChartConfig{})

	res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID, Range: "24h", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, 48, res.OriginalCount)
	assert.Equal(t, 5, res.ReturnedCount)
	assert.Equal(t, "24h", res.Range)
	assert.Equal(t, "raw", res.Interval)
	require.Len(t, res.Points, 5)
	last := res.Points[4]
	assert.Equal(t, chartNow.UnixMilli(), last.Timestamp)
	assert.Equal(t, int64(10000), last.ViewCount)
	assert.Equal(t, "2025-10-19T12:00:00.000Z", last.Date)
	assert.Nil(t, res.Statistics)
}

func TestChartService_DailyResampleWithStats(t *testing.T) {
	store := newMemStore()
	store.set(DataKey(trackedID), entity.SnapshotFile{VideoID: trackedID, Snapshots: hourlySeries(48)})
	official := &stubOfficial{}
	c := newTestChart(t, store, official, ChartConfig{ChannelID: "UC123"})

	res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID, Range: "all", Interval: "daily", WithStats: true})
	require.NoError(t, err)

	assert.Equal(t, "all", res.Range)
	assert.Equal(t, "daily", res.Interval)
	// 2025-10-17 12:00 .. 2025-10-19 12:00 spans three UTC days
	assert.Equal(t, 3, res.ReturnedCount)

	require.NotNil(t, res.Statistics)
	last24h := res.Statistics.Last24h
	assert.Equal(t, timeseries.SourceLocal, last24h.Source)
	require.NotNil(t, last24h.Views)
	assert.Equal(t, int64(2400), *last24h.Views)
	assert.Zero(t, official.calls, "local figure must not consult the fallback")
	assert.Equal(t, 48, res.Statistics.Summary.TotalRecords)
	assert.Equal(t, 3, res.Statistics.Summary.FilteredRecords)
}

func TestChartService_StatsUseFallbackForShortHistory(t *testing.T) {
	store := newMemStore()
	store.set(DataKey(trackedID), entity.SnapshotFile{VideoID: trackedID, Snapshots: hourlySeries(1)})
	official := &stubOfficial{views: &timeseries.OfficialViews{ViewsLast24h: 777, WindowDescriptor: "2025-10-18"}}
	c := newTestChart(t, store, official, ChartConfig{ChannelID: "UC123", Timezone: "Asia/Shanghai"})

	res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID, WithStats: true})
	require.NoError(t, err)
	require.NotNil(t, res.Statistics)

	last24h := res.Statistics.Last24h
	assert.Equal(t, timeseries.SourceFallback, last24h.Source)
	assert.Equal(t, timeseries.StatusInsufficientData, last24h.LocalStatus)
	require.NotNil(t, last24h.Views)
	assert.Equal(t, int64(777), *last24h.Views)
	assert.Equal(t, 1, official.calls)
}

func TestChartService_NoChannelSkipsFallback(t *testing.T) {
	store := newMemStore()
	store.set(DataKey(trackedID), entity.SnapshotFile{VideoID: trackedID, Snapshots: hourlySeries(1)})
	official := &stubOfficial{views: &timeseries.OfficialViews{ViewsLast24h: 777}}
	c := newTestChart(t, store, official, ChartConfig{})

	res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID, WithStats: true})
	require.NoError(t, err)
	assert.Equal(t, timeseries.SourceUnavailable, res.Statistics.Last24h.Source)
	assert.Nil(t, res.Statistics.Last24h.Views)
	assert.Zero(t, official.calls)
}

func TestChartService_LegacyBlobFallback(t *testing.T) {
	store := newMemStore()
	store.set(LegacyDataKey, []map[string]any{
		{"timestamp": chartNow.Add(-time.Hour).Format(time.RFC3339), "viewCount": 10},
		{"timestamp": chartNow.Format(time.RFC3339), "viewCount": "25"},
	})

	t.Run("legacy video reads the old blob", func(t *testing.T) {
		c := newTestChart(t, store, nil, ChartConfig{LegacyVideoID: trackedID})
		res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID})
		require.NoError(t, err)
		require.Len(t, res.Points, 2)
		assert.Equal(t, int64(25), res.Points[1].ViewCount)
	})

	t.Run("other videos do not", func(t *testing.T) {
		c := newTestChart(t, store, nil, ChartConfig{LegacyVideoID: trackedID})
		res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: "NReeTQ3YTAU"})
		require.NoError(t, err)
		assert.Empty(t, res.Points)
		assert.Zero(t, res.OriginalCount)
	})
}

func TestChartService_EmptyOrCorruptSeries(t *testing.T) {
	store := newMemStore()
	store.blobs[DataKey(trackedID)] = []byte("not json")
	c := newTestChart(t, store, nil, ChartConfig{})

	res, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID, WithStats: true})
	require.NoError(t, err)
	assert.Empty(t, res.Points)
	assert.Nil(t, res.Statistics)
}

func TestChartService_StorageErrorIsReturned(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("gist 502")
	c := newTestChart(t, store, nil, ChartConfig{})

	_, err := c.Query(context.Background(), entity.ChartQuery{VideoID: trackedID})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.getErr)
}
