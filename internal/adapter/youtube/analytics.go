package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtubeanalytics/v2"
)

var errNoAnalyticsData = errors.New("analytics report has no views for the requested days")

// AnalyticsClient answers the official trailing-day view count of a channel. Calls are not
// retried; the caller bounds them with its own timeout.
type AnalyticsClient struct {
	service *youtubeanalytics.Service
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsClient authenticates with a stored OAuth refresh token.
func NewAnalyticsClient(ctx context.Context, clientID, clientSecret, refreshToken string, logger *zap.Logger) (*AnalyticsClient, error) {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtubeanalytics.YtAnalyticsReadonlyScope},
	}
	ts := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return newAnalyticsClient(ctx, logger, option.WithTokenSource(ts))
}

func newAnalyticsClient(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (*AnalyticsClient, error) {
	svc, err := youtubeanalytics.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Analytics service: %w", err)
	}
	return &AnalyticsClient{service: svc, logger: logger, now: time.Now}, nil
}

// OfficialLast24h implements timeseries.OfficialViewsFetcher. Analytics reports are daily, so
// the figure is the most recent complete day with views in timezone.
func (c *AnalyticsClient) OfficialLast24h(ctx context.Context, channelID, timezone string) (*timeseries.OfficialViews, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("analytics timezone %q: %w", timezone, err)
		}
		loc = l
	}
	today := c.now().In(loc)
	start := today.AddDate(0, 0, -2).Format(time.DateOnly)
	end := today.Format(time.DateOnly)

	resp, err := c.service.Reports.Query().
		Ids("channel==" + channelID).
		StartDate(start).
		EndDate(end).
		Metrics("views").
		Dimensions("day").
		Sort("day").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("analytics query: %w", err)
	}

	for i := len(resp.Rows) - 1; i >= 0; i-- {
		row := resp.Rows[i]
		if len(row) < 2 {
			continue
		}
		day, _ := row[0].(string)
		views, ok := row[1].(float64)
		if !ok || views <= 0 {
			continue
		}
		c.logger.Debug("official views resolved",
			zap.String("channel_id", channelID),
			zap.String("day", day),
			zap.Int64("views", int64(views)))
		return &timeseries.OfficialViews{
			ViewsLast24h:     int64(views),
			WindowDescriptor: fmt.Sprintf("day %s (%s)", day, loc),
		}, nil
	}
	return nil, errNoAnalyticsData
}
