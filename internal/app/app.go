package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/adapter/cache"
	"github.com/dayanaadylkhanova/view-tracker/internal/adapter/store/gcs"
	"github.com/dayanaadylkhanova/view-tracker/internal/adapter/store/gist"
	"github.com/dayanaadylkhanova/view-tracker/internal/adapter/store/postgres"
	http_server "github.com/dayanaadylkhanova/view-tracker/internal/adapter/transport/http"
	"github.com/dayanaadylkhanova/view-tracker/internal/adapter/youtube"
	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"github.com/dayanaadylkhanova/view-tracker/pkg/config"
	"go.uber.org/zap"
)

type AppInfo struct {
	Name      string
	BuildTime string
	Commit    string
	Release   string
}

type App struct {
	cfg  config.Config
	info *AppInfo
	log  *zap.Logger

	closers []func()
	poller  *service.Poller
	server  *http_server.Server
}

func New(ctx context.Context, cfg config.Config, info *AppInfo, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, info: info, log: log}

	// 1) Blob store, optionally behind Redis
	st, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// 2) Engine and domain services
	engine := timeseries.NewEngine(log, time.Duration(cfg.GrowthOffsetHours)*time.Hour, cfg.FallbackTimeout)
	registry := service.NewVideoRegistry(log, st, defaultVideos(cfg.DefaultVideos), cfg.CacheTTL)
	quota := service.NewQuotaTracker(log, st, cfg.QuotaLimit)

	// 3) YouTube adapters
	if cfg.YouTubeAPIKey == "" {
		log.Warn("YOUTUBE_API_KEY is not set, polling will fail")
	}
	stats, err := youtube.NewStatsClient(ctx, cfg.YouTubeAPIKey, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	var official timeseries.OfficialViewsFetcher
	if cfg.AnalyticsEnabled() {
		ac, err := youtube.NewAnalyticsClient(ctx, cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRefreshToken, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		official = ac
	}

	a.poller = service.NewPoller(log, st, stats, registry, quota, engine, service.PollerConfig{
		Every:       cfg.PollEvery,
		Concurrency: cfg.PollConcurrency,
		Retention:   time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	})
	chart := service.NewChartService(log, st, registry, engine, official, service.ChartConfig{
		LegacyVideoID:    cfg.LegacyDataVideoID,
		ResampleLocation: resampleLocation(cfg.ResampleTimezone, log),
		ChannelID:        cfg.YouTubeChannelID,
		Timezone:         cfg.AnalyticsTimezone,
	})

	// 4) HTTP server
	a.server = http_server.NewServer(log, cfg.ListenAddr, chart, a.poller, registry, quota, cfg.CronAuthToken)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (service.BlobStore, error) {
	var st service.BlobStore
	switch a.cfg.BlobBackend {
	case config.BackendPostgres:
		pg, err := postgres.New(ctx, a.cfg.DatabaseURL, a.log)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if err := pg.Init(ctx); err != nil {
			return nil, fmt.Errorf("postgres init: %w", err)
		}
		st = pg
	case config.BackendGCS:
		g, err := gcs.New(ctx, a.cfg.GCSBucket, a.cfg.GCSPrefix, a.log)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		a.closers = append(a.closers, func() { _ = g.Close() })
		st = g
	default:
		st = gist.New(a.log, a.cfg.GistID, a.cfg.GitHubToken, a.cfg.GitHubAPIBaseURL)
	}

	if a.cfg.RedisURL == "" {
		return st, nil
	}
	client, err := cache.Connect(ctx, a.cfg.RedisURL, a.log)
	if err != nil {
		a.log.Warn("redis unavailable, serving without cache", zap.Error(err))
		return st, nil
	}
	c := cache.New(st, client, a.cfg.CacheTTL, a.log)
	a.closers = append(a.closers, func() { _ = c.Close() })
	return c, nil
}

// Handler exposes the router for embedding in another server.
func (a *App) Handler() http.Handler { return a.server.Handler() }

// PollOnce runs a single poll cycle and flushes what it buffered.
func (a *App) PollOnce(ctx context.Context) (*entity.PollReport, error) {
	defer a.poller.Stop(ctx)
	return a.poller.PollOnce(ctx)
}

func (a *App) Run(ctx context.Context) error {
	// Start background polling
	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.poller.Run(bgCtx)

	// Start HTTP
	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- a.server.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ErrAppShutdownNormal
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("%w: %v", ErrAppStartup, err)
		} else {
			runErr = ErrAppShutdownNormal
		}
	}

	// Graceful shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.ShutdownWait)
	defer cancelShutdown()
	if err := a.server.Shutdown(shutdownCtx); err != nil && errors.Is(runErr, ErrAppShutdownNormal) {
		runErr = fmt.Errorf("%w: %v", ErrAppShutdownWithError, err)
	}
	cancel()
	a.poller.Stop(shutdownCtx)
	a.Close()

	return runErr
}

// Close releases store connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func defaultVideos(in []config.DefaultVideo) []entity.Video {
	out := make([]entity.Video, 0, len(in))
	for _, v := range in {
		color := v.Color
		if color == "" {
			color = entity.DefaultVideoColor
		}
		out = append(out, entity.Video{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Name + " - YouTube view tracking",
			Color:       color,
			StartDate:   "2024-01-01",
		})
	}
	return out
}

func resampleLocation(name string, log *zap.Logger) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown RESAMPLE_TZ, using local time", zap.String("tz", name), zap.Error(err))
		return time.Local
	}
	return loc
}
