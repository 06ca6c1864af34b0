package http_server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const chartCacheControl = "public, max-age=60"

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type chartMeta struct {
	RequestID     string    `json:"requestId,omitempty"`
	RequestedAt   time.Time `json:"requestedAt"`
	VideoID       string    `json:"videoId"`
	Range         string    `json:"range"`
	Interval      string    `json:"interval"`
	OriginalCount int       `json:"originalCount"`
	ReturnedCount int       `json:"returnedCount"`
}

type chartResponse struct {
	Success    bool                   `json:"success"`
	Data       []entity.ChartPoint    `json:"data"`
	Video      entity.Video           `json:"videoInfo"`
	Meta       chartMeta              `json:"meta"`
	Statistics *timeseries.Statistics `json:"statistics,omitempty"`
}

func (s *Server) handleChartData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		videoID := strings.TrimSpace(q.Get("videoId"))
		if videoID == "" {
			writeJSON(w, http.StatusBadRequest, envelope{Error: "videoId is required", Code: codeMissingVideoID})
			return
		}
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit < 0 {
			limit = 0
		}

		res, err := s.chart.Query(r.Context(), entity.ChartQuery{
			VideoID:   videoID,
			Range:     q.Get("range"),
			Interval:  q.Get("interval"),
			WithStats: q.Get("stats") == "true",
			Limit:     limit,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", chartCacheControl)
		writeJSON(w, http.StatusOK, chartResponse{
			Success: true,
			Data:    res.Points,
			Video:   res.Video,
			Meta: chartMeta{
				RequestID:     middleware.GetReqID(r.Context()),
				RequestedAt:   time.Now().UTC(),
				VideoID:       videoID,
				Range:         res.Range,
				Interval:      res.Interval,
				OriginalCount: res.OriginalCount,
				ReturnedCount: res.ReturnedCount,
			},
			Statistics: res.Statistics,
		})
	}
}

func (s *Server) handleFetchAndStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.poller.PollOnce(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
	}
}

func (s *Server) handleQuotaStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := s.quota.Status(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: st})
	}
}

func (s *Server) handleListVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := s.videos.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: l})
	}
}

func (s *Server) handleAddVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v entity.Video
		if !decodeBody(w, r, &v) {
			return
		}
		added, err := s.videos.Add(r.Context(), v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, envelope{Success: true, Data: added})
	}
}

func (s *Server) handleUpdateVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch entity.VideoPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		updated, err := s.videos.Update(r.Context(), chi.URLParam(r, "videoID"), patch)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: updated})
	}
}

func (s *Server) handleDeleteVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := s.videos.Delete(r.Context(), chi.URLParam(r, "videoID"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: removed})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "invalid JSON", Code: codeInvalidJSON})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Debug("response write failed", zap.Error(err))
	}
}
