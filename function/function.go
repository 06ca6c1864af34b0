// Package function exposes the view tracker as a Cloud Functions HTTP target.
// The scheduler calls /api/fetch-and-store, so no background poller runs here.
package function

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/dayanaadylkhanova/view-tracker/internal/app"
	"github.com/dayanaadylkhanova/view-tracker/pkg/config"
	"github.com/dayanaadylkhanova/view-tracker/pkg/logger"
	"go.uber.org/zap"
)

var (
	handlerMu   sync.RWMutex
	handler     http.Handler
	handlerErr  error
	handlerOnce sync.Once
)

func init() {
	functions.HTTP("ViewTracker", ViewTracker)
}

// ViewTracker serves the same routes as the standalone binary.
func ViewTracker(w http.ResponseWriter, r *http.Request) {
	h, err := getHandler()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "service not configured",
			"code":    "STORAGE_UNAVAILABLE",
		})
		return
	}
	h.ServeHTTP(w, r)
}

func getHandler() (http.Handler, error) {
	handlerMu.RLock()
	if handler != nil {
		defer handlerMu.RUnlock()
		return handler, nil
	}
	handlerMu.RUnlock()

	handlerOnce.Do(func() {
		h, err := build(context.Background())
		handlerMu.Lock()
		handler, handlerErr = h, err
		handlerMu.Unlock()
	})

	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler, handlerErr
}

func build(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Parse()
	if err != nil {
		zap.L().Error("can't parse app config", zap.Error(err))
		return nil, err
	}
	zl := logger.NewJSON(cfg.LogLevel)
	zap.ReplaceGlobals(zl)

	a, err := app.New(ctx, *cfg, &app.AppInfo{Name: "view-tracker-function"}, zl)
	if err != nil {
		zl.Error("can't build app", zap.Error(err))
		return nil, err
	}
	return a.Handler(), nil
}

// SetHandler replaces the lazily built handler. Tests use it to inject fakes.
func SetHandler(h http.Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	handler = h
}
