package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"go.uber.org/zap"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type ChartConfig struct {
	// LegacyVideoID is served from LegacyDataKey when its own blob is missing.
	LegacyVideoID string
	// ResampleLocation sets the calendar used for hourly/daily buckets.
	ResampleLocation *time.Location
	ChannelID        string
	Timezone         string
}

// ChartService answers chart-data queries for tracked videos.
type ChartService struct {
	log      *zap.Logger
	store    BlobStore
	videos   VideoSource
	engine   *timeseries.Engine
	official timeseries.OfficialViewsFetcher
	cfg      ChartConfig
	now      func() time.Time
}

// NewChartService builds the service; official may be nil when no analytics fallback is configured.
func NewChartService(log *zap.Logger, store BlobStore, videos VideoSource, engine *timeseries.Engine, official timeseries.OfficialViewsFetcher, cfg ChartConfig) *ChartService {
	return &ChartService{log: log, store: store, videos: videos, engine: engine, official: official, cfg: cfg, now: time.Now}
}

func (c *ChartService) WithClock(now func() time.Time) *ChartService {
	c.now = now
	return c
}

func (c *ChartService) Query(ctx context.Context, q entity.ChartQuery) (*entity.ChartResult, error) {
	if !ValidVideoID(q.VideoID) {
		return nil, &ValidationError{Field: "videoId", Message: "must be 11 characters of [a-zA-Z0-9_-]", Err: ErrInvalidVideoID}
	}
	list, err := c.videos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	video, ok := list.Find(q.VideoID)
	if !ok {
		return nil, &NotTrackedError{VideoID: q.VideoID, Available: list.IDs()}
	}

	series, err := c.loadSeries(ctx, q.VideoID)
	if err != nil {
		return nil, err
	}

	now := c.now()
	interval := timeseries.ParseGranularity(q.Interval)
	display := timeseries.FilterByRange(series, now, timeseries.ParseRangeHours(q.Range))
	if interval == timeseries.GranularityRaw {
		display = timeseries.Sorted(display)
	} else {
		display = timeseries.Resample(display, interval, c.cfg.ResampleLocation)
	}
	if q.Limit > 0 && len(display) > q.Limit {
		display = display[len(display)-q.Limit:]
	}

	res := &entity.ChartResult{
		Video:         video,
		Points:        make([]entity.ChartPoint, 0, len(display)),
		OriginalCount: len(series),
		ReturnedCount: len(display),
		Range:         rangeLabel(q.Range),
		Interval:      string(interval),
	}
	for _, s := range display {
		res.Points = append(res.Points, entity.ChartPoint{
			Timestamp: s.TimestampMs,
			ViewCount: s.ViewsTotal,
			LikeCount: s.LikesTotal,
			Date:      time.UnixMilli(s.TimestampMs).UTC().Format(isoMillis),
		})
	}

	if q.WithStats && len(series) > 0 {
		in := timeseries.AggregateInput{
			Raw:       series,
			Processed: display,
			Now:       now,
			ChannelID: c.cfg.ChannelID,
			Timezone:  c.cfg.Timezone,
		}
		if c.official != nil && c.cfg.ChannelID != "" {
			in.Fallback = c.official
		}
		res.Statistics = c.engine.Aggregate(ctx, in)
	}
	return res, nil
}

// loadSeries reads the stored series. Absent or unreadable blobs yield an empty series;
// storage failures are returned.
func (c *ChartService) loadSeries(ctx context.Context, videoID string) (timeseries.Series, error) {
	data, err := c.store.Get(ctx, DataKey(videoID))
	if errors.Is(err, ErrBlobNotFound) && videoID == c.cfg.LegacyVideoID {
		data, err = c.store.Get(ctx, LegacyDataKey)
	}
	if errors.Is(err, ErrBlobNotFound) {
		return timeseries.Series{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read series %s: %w", videoID, err)
	}
	s, err := c.engine.ParseSeries(data)
	if err != nil {
		c.log.Debug("stored series unusable", zap.String("video_id", videoID), zap.Error(err))
		return timeseries.Series{}, nil
	}
	return s, nil
}

func rangeLabel(r string) string {
	if h := timeseries.ParseRangeHours(r); h > 0 {
		return fmt.Sprintf("%gh", h)
	}
	return "all"
}
