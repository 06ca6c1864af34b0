package http_server

import (
	"context"
	"net/http"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	log       *zap.Logger
	addr      string
	chart     service.ChartPort
	poller    service.PollerPort
	videos    service.VideoRegistryPort
	quota     service.QuotaStatusPort
	authToken string
	handler   http.Handler
	httpSrv   *http.Server
}

// NewServer wires the routes. An empty authToken leaves the protected routes open.
func NewServer(log *zap.Logger, addr string, chart service.ChartPort, poller service.PollerPort,
	videos service.VideoRegistryPort, quota service.QuotaStatusPort, authToken string) *Server {
	s := &Server{log: log, addr: addr, chart: chart, poller: poller, videos: videos, quota: quota, authToken: authToken}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(zapLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Route("/api", func(r chi.Router) {
		r.Get("/chart-data", s.handleChartData())
		r.Get("/quota-status", s.handleQuotaStatus())
		r.Get("/videos", s.handleListVideos())

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/fetch-and-store", s.handleFetchAndStore())
			r.Post("/fetch-and-store", s.handleFetchAndStore())
			r.Post("/videos", s.handleAddVideo())
			r.Put("/videos/{videoID}", s.handleUpdateVideo())
			r.Delete("/videos/{videoID}", s.handleDeleteVideo())
		})
	})

	s.handler = r
	s.httpSrv = &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Start() error {
	s.log.Info("http listen", zap.String("addr", s.addr))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func zapLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
