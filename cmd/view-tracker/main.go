package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/app"
	"github.com/dayanaadylkhanova/view-tracker/pkg/config"
	"github.com/dayanaadylkhanova/view-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	AppName      = "view-tracker"
	AppBuildTime = "dev"
	AppCommit    = "dev"
	AppRelease   = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          AppName,
		Short:        "Track YouTube view counts and serve chart data.",
		Args:         cobra.NoArgs,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", AppRelease, AppCommit, AppBuildTime),
		SilenceUsage: true,
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background poller (default).",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return run(cmd.Context(), serveApp) },
	}
	poll := &cobra.Command{
		Use:   "poll",
		Short: "Record one snapshot per tracked video and exit.",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return run(cmd.Context(), pollOnce) },
	}
	root.RunE = serve.RunE
	root.AddCommand(serve, poll)
	return root
}

func run(parent context.Context, fn func(context.Context, *app.App, *zap.Logger) error) error {
	// 1) Config
	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("can't parse app config: %w", err)
	}
	if cfg.MaxCPU > 0 {
		runtime.GOMAXPROCS(cfg.MaxCPU)
	}

	// 2) Build info
	info := &app.AppInfo{
		Name:      AppName,
		BuildTime: AppBuildTime,
		Commit:    AppCommit,
		Release:   AppRelease,
	}

	// 3) Logger (zap)
	zl := logger.NewJSON(cfg.LogLevel)
	defer func() {
		if r := recover(); r != nil {
			zl.Error("panic error", zap.Error(fmt.Errorf("%v", r)))
		}
		_ = zl.Sync()
	}()
	zap.ReplaceGlobals(zl)
	zl.Info(fmt.Sprintf("Application `%s` %s started.", AppName, AppRelease))

	// 4) Context and signals
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	// 5) Application
	application, err := app.New(ctx, *cfg, info, zl)
	if err != nil {
		zl.Error("can't build app", zap.Error(err))
		return err
	}
	return fn(ctx, application, zl)
}

func serveApp(ctx context.Context, application *app.App, zl *zap.Logger) error {
	err := application.Run(ctx)
	switch {
	case errors.Is(err, app.ErrAppStartup):
		zl.Error("can't run application", zap.Error(err))
		return err
	case errors.Is(err, app.ErrAppShutdownWithError):
		zl.Error("application is shutdown with error", zap.Error(err))
		return err
	default:
		zl.Warn("application is shutdown")
	}

	// Give the logger a moment to sync
	time.Sleep(100 * time.Millisecond)
	return nil
}

func pollOnce(ctx context.Context, application *app.App, zl *zap.Logger) error {
	defer application.Close()
	report, err := application.PollOnce(ctx)
	if err != nil {
		zl.Error("poll failed", zap.Error(err))
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
