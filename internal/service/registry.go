package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"go.uber.org/zap"
)

const maxVideoNameLen = 100

// VideoRegistry manages the tracked-video list stored under VideosConfigKey. Reads are
// cached for ttl; every write drops the cache.
type VideoRegistry struct {
	log      *zap.Logger
	store    BlobStore
	defaults []entity.Video
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex // serializes writes
	cacheMu  sync.Mutex
	cached   *entity.VideoList
	cachedAt time.Time
}

func NewVideoRegistry(log *zap.Logger, store BlobStore, defaults []entity.Video, ttl time.Duration) *VideoRegistry {
	return &VideoRegistry{log: log, store: store, defaults: defaults, ttl: ttl, now: time.Now}
}

// WithClock replaces the registry clock.
func (r *VideoRegistry) WithClock(now func() time.Time) *VideoRegistry {
	r.now = now
	return r
}

func (r *VideoRegistry) List(ctx context.Context) (entity.VideoList, error) {
	r.cacheMu.Lock()
	if r.cached != nil && r.now().Sub(r.cachedAt) < r.ttl {
		l := *r.cached
		r.cacheMu.Unlock()
		return l, nil
	}
	r.cacheMu.Unlock()

	l, err := r.load(ctx)
	if err != nil {
		r.log.Warn("video config unavailable, serving defaults", zap.Error(err))
		return entity.VideoList{Videos: r.defaultVideos(), Source: entity.VideoSourceFallback}, nil
	}

	r.cacheMu.Lock()
	r.cached, r.cachedAt = &l, r.now()
	r.cacheMu.Unlock()
	return l, nil
}

// load reads the stored list. A missing or invalid list yields the defaults; only storage
// failures are returned as errors.
func (r *VideoRegistry) load(ctx context.Context) (entity.VideoList, error) {
	data, err := r.store.Get(ctx, VideosConfigKey)
	if errors.Is(err, ErrBlobNotFound) {
		return entity.VideoList{Videos: r.defaultVideos(), Source: entity.VideoSourceDefault}, nil
	}
	if err != nil {
		return entity.VideoList{}, err
	}

	var videos []entity.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		r.log.Warn("stored video config is not valid JSON", zap.Error(err))
		return entity.VideoList{Videos: r.defaultVideos(), Source: entity.VideoSourceDefault}, nil
	}
	if len(videos) == 0 {
		return entity.VideoList{Videos: r.defaultVideos(), Source: entity.VideoSourceDefault}, nil
	}
	today := r.today()
	for i := range videos {
		if err := validateVideo(videos[i]); err != nil {
			r.log.Warn("stored video config rejected", zap.Int("index", i), zap.Error(err))
			return entity.VideoList{Videos: r.defaultVideos(), Source: entity.VideoSourceDefault}, nil
		}
		videos[i] = withDefaults(videos[i], today)
	}
	return entity.VideoList{Videos: videos, Source: entity.VideoSourceUser}, nil
}

func (r *VideoRegistry) Add(ctx context.Context, v entity.Video) (entity.Video, error) {
	v = trimVideo(v)
	if err := validateVideo(v); err != nil {
		return entity.Video{}, err
	}
	v = withDefaults(v, r.today())

	r.mu.Lock()
	defer r.mu.Unlock()
	l, err := r.load(ctx)
	if err != nil {
		return entity.Video{}, fmt.Errorf("%w: %v", ErrRegistryOffline, err)
	}
	if _, ok := l.Find(v.ID); ok {
		return entity.Video{}, fmt.Errorf("%w: %s", ErrDuplicateVideo, v.ID)
	}
	if err := r.save(ctx, append(l.Videos, v)); err != nil {
		return entity.Video{}, err
	}
	r.log.Info("video added", zap.String("video_id", v.ID), zap.String("name", v.Name))
	return v, nil
}

func (r *VideoRegistry) Update(ctx context.Context, id string, patch entity.VideoPatch) (entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, err := r.load(ctx)
	if err != nil {
		return entity.Video{}, fmt.Errorf("%w: %v", ErrRegistryOffline, err)
	}
	idx := indexOf(l.Videos, id)
	if idx < 0 {
		return entity.Video{}, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	v := l.Videos[idx]
	if patch.Name != nil {
		v.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		v.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil {
		v.Color = strings.TrimSpace(*patch.Color)
	}
	if err := validateVideo(v); err != nil {
		return entity.Video{}, err
	}
	v = withDefaults(v, r.today())

	videos := append([]entity.Video(nil), l.Videos...)
	videos[idx] = v
	if err := r.save(ctx, videos); err != nil {
		return entity.Video{}, err
	}
	r.log.Info("video updated", zap.String("video_id", id))
	return v, nil
}

func (r *VideoRegistry) Delete(ctx context.Context, id string) (entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, err := r.load(ctx)
	if err != nil {
		return entity.Video{}, fmt.Errorf("%w: %v", ErrRegistryOffline, err)
	}
	idx := indexOf(l.Videos, id)
	if idx < 0 {
		return entity.Video{}, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	if len(l.Videos) == 1 {
		return entity.Video{}, ErrLastVideo
	}

	removed := l.Videos[idx]
	videos := make([]entity.Video, 0, len(l.Videos)-1)
	videos = append(videos, l.Videos[:idx]...)
	videos = append(videos, l.Videos[idx+1:]...)
	if err := r.save(ctx, videos); err != nil {
		return entity.Video{}, err
	}
	r.log.Info("video deleted", zap.String("video_id", id))
	return removed, nil
}

func (r *VideoRegistry) save(ctx context.Context, videos []entity.Video) error {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, VideosConfigKey, data); err != nil {
		return fmt.Errorf("save video config: %w", err)
	}
	r.cacheMu.Lock()
	r.cached = nil
	r.cacheMu.Unlock()
	return nil
}

func (r *VideoRegistry) defaultVideos() []entity.Video {
	return append([]entity.Video(nil), r.defaults...)
}

func (r *VideoRegistry) today() string { return r.now().UTC().Format(time.DateOnly) }

func validateVideo(v entity.Video) error {
	if v.ID == "" {
		return &ValidationError{Field: "id", Message: "is required", Err: ErrInvalidVideoID}
	}
	if !ValidVideoID(v.ID) {
		return &ValidationError{Field: "id", Message: "must be 11 characters of [a-zA-Z0-9_-]", Err: ErrInvalidVideoID}
	}
	if strings.TrimSpace(v.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(v.Name) > maxVideoNameLen {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", maxVideoNameLen)}
	}
	return nil
}

func trimVideo(v entity.Video) entity.Video {
	v.ID = strings.TrimSpace(v.ID)
	v.Name = strings.TrimSpace(v.Name)
	v.Description = strings.TrimSpace(v.Description)
	v.Color = strings.TrimSpace(v.Color)
	v.StartDate = strings.TrimSpace(v.StartDate)
	return v
}

func withDefaults(v entity.Video, today string) entity.Video {
	if v.Description == "" {
		v.Description = v.Name + " - YouTube view tracking"
	}
	if v.Color == "" {
		v.Color = entity.DefaultVideoColor
	}
	if v.StartDate == "" {
		v.StartDate = today
	}
	return v
}

func indexOf(videos []entity.Video, id string) int {
	for i := range videos {
		if videos[i].ID == id {
			return i
		}
	}
	return -1
}
