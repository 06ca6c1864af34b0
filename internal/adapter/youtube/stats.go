// Package youtube adapts the YouTube Data and Analytics APIs to the service ports.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/dayanaadylkhanova/view-tracker/pkg/retry"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	batchSize     = 50
	videosListOp  = "videos.list"
	quotaExceeded = "quotaExceeded"
	dailyLimit    = "dailyLimitExceeded"
)

// StatsClient reads view and like counters through videos.list.
type StatsClient struct {
	service *youtube.Service
	logger  *zap.Logger
	retry   retry.Policy
	now     func() time.Time
}

// NewStatsClient authenticates with an API key. An empty key builds an unauthenticated client
// whose calls the API rejects.
func NewStatsClient(ctx context.Context, apiKey string, logger *zap.Logger) (*StatsClient, error) {
	if apiKey == "" {
		return newStatsClient(ctx, logger, option.WithoutAuthentication())
	}
	return newStatsClient(ctx, logger, option.WithAPIKey(apiKey))
}

func newStatsClient(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (*StatsClient, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &StatsClient{service: svc, logger: logger, retry: retry.Default(logger), now: time.Now}, nil
}

// FetchStats implements service.StatsFetcher. A quota rejection aborts the whole call; other
// batch failures are logged and skipped unless every batch fails.
func (c *StatsClient) FetchStats(ctx context.Context, videoIDs []string) (map[string]entity.VideoStats, error) {
	result := make(map[string]entity.VideoStats, len(videoIDs))
	var lastErr error

	for i := 0; i < len(videoIDs); i += batchSize {
		batch := videoIDs[i:min(i+batchSize, len(videoIDs))]

		var resp *youtube.VideoListResponse
		err := c.retry.Do(ctx, videosListOp, func(ctx context.Context) error {
			var err error
			resp, err = c.service.Videos.List([]string{"statistics"}).
				Id(batch...).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			if qe := c.quotaError(err, (len(videoIDs)+batchSize-1)/batchSize); qe != nil {
				return nil, qe
			}
			c.logger.Error("Failed to fetch video statistics",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			lastErr = err
			continue
		}

		for _, item := range resp.Items {
			if item.Statistics == nil {
				continue
			}
			// The client decodes a hidden like count as 0, so 0 is recorded as is.
			likes := int64(item.Statistics.LikeCount)
			st := entity.VideoStats{
				VideoID:   item.Id,
				ViewCount: int64(item.Statistics.ViewCount),
				LikeCount: &likes,
			}
			result[item.Id] = st
		}
	}

	if len(result) == 0 && lastErr != nil {
		return nil, fmt.Errorf("YouTube API error: %w", lastErr)
	}

	c.logger.Info("Video statistics fetched",
		zap.Int("videos", len(videoIDs)),
		zap.Int("results", len(result)))
	return result, nil
}

func (c *StatsClient) quotaError(err error, requested int) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != 403 {
		return nil
	}
	for _, item := range apiErr.Errors {
		if item.Reason == quotaExceeded || item.Reason == dailyLimit {
			return &service.QuotaExceededError{
				Used:      service.DefaultQuotaLimit,
				Limit:     service.DefaultQuotaLimit,
				Requested: requested,
				ResetTime: service.NextQuotaReset(c.now()),
			}
		}
	}
	return nil
}
