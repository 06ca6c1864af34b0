package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrInvalidVideoID  = errors.New("invalid video id")
	ErrVideoNotTracked = errors.New("video is not tracked")
	ErrDuplicateVideo  = errors.New("video is already tracked")
	ErrVideoNotFound   = errors.New("video not found")
	ErrLastVideo       = errors.New("cannot delete the last tracked video")
	ErrRegistryOffline = errors.New("video registry storage is unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ValidationError describes a rejected field of a request.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }
func (e *ValidationError) Unwrap() error { return e.Err }

// NotTrackedError is returned when a query names a video outside the tracked list.
type NotTrackedError struct {
	VideoID   string
	Available []string
}

func (e *NotTrackedError) Error() string {
	return fmt.Sprintf("video %s is not tracked", e.VideoID)
}

func (e *NotTrackedError) Is(target error) bool { return target == ErrVideoNotTracked }

// QuotaExceededError is returned when a call would exceed the daily API quota.
type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded: used %d/%d, requested %d (resets at %s)",
		e.Used, e.Limit, e.Requested, e.ResetTime.Format(time.RFC3339))
}

// Blob names.
const (
	VideosConfigKey = "youtube-videos-config.json"
	QuotaKey        = "youtube-quota.json"
	LegacyDataKey   = "youtube-data.json"
)

func DataKey(videoID string) string { return "youtube-data-" + videoID + ".json" }

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

func ValidVideoID(id string) bool { return videoIDPattern.MatchString(id) }
