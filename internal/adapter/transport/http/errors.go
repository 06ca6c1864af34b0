package http_server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Error codes returned in the envelope.
const (
	codeMissingVideoID  = "MISSING_VIDEO_ID"
	codeInvalidVideoID  = "INVALID_VIDEO_ID"
	codeVideoNotTracked = "VIDEO_NOT_TRACKED"
	codeDuplicateVideo  = "DUPLICATE_VIDEO_ID"
	codeVideoNotFound   = "VIDEO_NOT_FOUND"
	codeCannotDelete    = "CANNOT_DELETE_LAST"
	codeInvalidParams   = "INVALID_PARAMS"
	codeInvalidJSON     = "INVALID_JSON"
	codeUnauthorized    = "UNAUTHORIZED"
	codeQuotaExceeded   = "QUOTA_EXCEEDED"
	codeStorageDown     = "STORAGE_UNAVAILABLE"
	codeInternal        = "INTERNAL_ERROR"
)

type notTrackedData struct {
	RequestedID  string   `json:"requestedId"`
	AvailableIDs []string `json:"availableIds"`
}

type quotaData struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Requested int    `json:"requested"`
	ResetTime string `json:"resetTime"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notTracked *service.NotTrackedError
		validation *service.ValidationError
		quota      *service.QuotaExceededError
	)
	switch {
	case errors.As(err, &notTracked):
		writeJSON(w, http.StatusBadRequest, envelope{
			Error: err.Error(),
			Code:  codeVideoNotTracked,
			Data:  notTrackedData{RequestedID: notTracked.VideoID, AvailableIDs: notTracked.Available},
		})
	case errors.Is(err, service.ErrInvalidVideoID):
		writeJSON(w, http.StatusBadRequest, envelope{Error: err.Error(), Code: codeInvalidVideoID})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, envelope{Error: err.Error(), Code: codeInvalidParams})
	case errors.Is(err, service.ErrDuplicateVideo):
		writeJSON(w, http.StatusConflict, envelope{Error: err.Error(), Code: codeDuplicateVideo})
	case errors.Is(err, service.ErrVideoNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Error: err.Error(), Code: codeVideoNotFound})
	case errors.Is(err, service.ErrLastVideo):
		writeJSON(w, http.StatusBadRequest, envelope{Error: err.Error(), Code: codeCannotDelete})
	case errors.As(err, &quota):
		writeJSON(w, http.StatusTooManyRequests, envelope{
			Error: err.Error(),
			Code:  codeQuotaExceeded,
			Data: quotaData{
				Used:      quota.Used,
				Limit:     quota.Limit,
				Requested: quota.Requested,
				ResetTime: quota.ResetTime.UTC().Format(time.RFC3339),
			},
		})
	case errors.Is(err, service.ErrRegistryOffline):
		s.log.Warn("storage unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "storage unavailable", Code: codeStorageDown})
	default:
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "internal error", Code: codeInternal})
	}
}

// requireToken accepts "Authorization: Bearer <token>" or ?token= / ?auth=.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" || s.authorized(r) {
			next.ServeHTTP(w, r)
			return
		}
		s.log.Warn("unauthorized request", zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusUnauthorized, envelope{Error: service.ErrUnauthorized.Error(), Code: codeUnauthorized})
	})
}

func (s *Server) authorized(r *http.Request) bool {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok && equal(token, s.authToken) {
			return true
		}
	}
	q := r.URL.Query()
	for _, key := range []string{"token", "auth"} {
		if v := q.Get(key); v != "" && equal(v, s.authToken) {
			return true
		}
	}
	return false
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
