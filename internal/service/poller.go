package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const videosPerStatsCall = 50

type PollerConfig struct {
	Every       time.Duration
	Concurrency int
	Retention   time.Duration
}

// Poller records one snapshot per tracked video per cycle. Snapshots are buffered per
// video and dropped from the buffer only after their blob write succeeds.
type Poller struct {
	log     *zap.Logger
	store   BlobStore
	fetcher StatsFetcher
	videos  VideoSource
	quota   QuotaRecorder
	engine  *timeseries.Engine
	cfg     PollerConfig
	now     func() time.Time

	mu      sync.Mutex
	pending map[string][]timeseries.Snapshot

	// cycleMu serializes poll cycles and the shutdown flush, so each blob has a single writer.
	cycleMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPoller(log *zap.Logger, store BlobStore, fetcher StatsFetcher, videos VideoSource, quota QuotaRecorder, engine *timeseries.Engine, cfg PollerConfig) *Poller {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	return &Poller{
		log:     log,
		store:   store,
		fetcher: fetcher,
		videos:  videos,
		quota:   quota,
		engine:  engine,
		cfg:     cfg,
		now:     time.Now,
		pending: make(map[string][]timeseries.Snapshot),
		stopCh:  make(chan struct{}),
	}
}

func (p *Poller) WithClock(now func() time.Time) *Poller {
	p.now = now
	return p
}

// PollOnce fetches current counters for every tracked video and persists them.
// Concurrent calls run one after another.
func (p *Poller) PollOnce(ctx context.Context) (*entity.PollReport, error) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	list, err := p.videos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	ids := list.IDs()
	now := p.now()
	report := &entity.PollReport{Timestamp: now.UTC()}
	if len(ids) == 0 {
		return report, nil
	}

	calls := (len(ids) + videosPerStatsCall - 1) / videosPerStatsCall
	cost := calls * p.quota.Cost("videos.list")
	if err := p.quota.Check(ctx, cost); err != nil {
		return nil, err
	}
	stats, err := p.fetcher.FetchStats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	if _, err := p.quota.Track(ctx, "videos.list", cost); err != nil {
		p.log.Warn("quota tracking failed", zap.Error(err))
	}

	results := make(map[string]*entity.PollResult, len(ids))
	for _, v := range list.Videos {
		r := &entity.PollResult{VideoID: v.ID, VideoName: v.Name}
		results[v.ID] = r
		st, ok := stats[v.ID]
		if !ok {
			r.Error = "video not returned by the statistics API"
			continue
		}
		r.ViewCount, r.LikeCount = st.ViewCount, st.LikeCount
		p.enqueue(v.ID, timeseries.Snapshot{TimestampMs: now.UnixMilli(), ViewsTotal: st.ViewCount, LikesTotal: st.LikeCount})
	}

	for id, ferr := range p.flush(ctx) {
		r, ok := results[id]
		if !ok || r.Error != "" {
			continue
		}
		if ferr != nil {
			r.Error = ferr.Error()
			continue
		}
		r.Success = true
	}

	for _, v := range list.Videos {
		r := results[v.ID]
		report.Results = append(report.Results, *r)
		report.Summary.TotalVideos++
		if r.Success {
			report.Summary.Successful++
			report.Summary.TotalViews += r.ViewCount
		} else {
			report.Summary.Failed++
		}
	}
	p.log.Info("poll finished",
		zap.Int("videos", report.Summary.TotalVideos),
		zap.Int("successful", report.Summary.Successful),
		zap.Int("failed", report.Summary.Failed))
	return report, nil
}

func (p *Poller) enqueue(videoID string, s timeseries.Snapshot) {
	p.mu.Lock()
	p.pending[videoID] = append(p.pending[videoID], s)
	p.mu.Unlock()
}

// flush writes every buffered video and reports the outcome per video.
func (p *Poller) flush(ctx context.Context) map[string]error {
	p.mu.Lock()
	batch := make(map[string][]timeseries.Snapshot, len(p.pending))
	for id, s := range p.pending {
		batch[id] = append([]timeseries.Snapshot(nil), s...)
	}
	p.mu.Unlock()

	var (
		resMu   sync.Mutex
		results = make(map[string]error, len(batch))
	)
	wp := pool.New().WithMaxGoroutines(p.cfg.Concurrency)
	for id, snaps := range batch {
		wp.Go(func() {
			err := p.appendSnapshots(ctx, id, snaps)
			resMu.Lock()
			results[id] = err
			resMu.Unlock()
		})
	}
	wp.Wait()

	p.mu.Lock()
	for id, err := range results {
		if err != nil {
			p.log.Warn("flush failed", zap.String("video_id", id), zap.Error(err))
			continue
		}
		// entries appended during the write stay buffered
		cur := p.pending[id]
		if len(cur) < len(batch[id]) {
			delete(p.pending, id)
			continue
		}
		rest := cur[len(batch[id]):]
		if len(rest) == 0 {
			delete(p.pending, id)
		} else {
			p.pending[id] = append([]timeseries.Snapshot(nil), rest...)
		}
	}
	p.mu.Unlock()
	return results
}

// appendSnapshots merges snaps into the stored series, applies retention and rewrites the
// blob in the current wrapper format. Legacy flat arrays are migrated on the way.
func (p *Poller) appendSnapshots(ctx context.Context, videoID string, snaps []timeseries.Snapshot) error {
	key := DataKey(videoID)
	data, err := p.store.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrBlobNotFound) {
		return fmt.Errorf("read %s: %w", key, err)
	}

	var existing timeseries.Series
	if len(data) > 0 {
		existing, err = p.engine.ParseSeries(data)
		if err != nil && !errors.Is(err, timeseries.ErrNoValidData) {
			p.log.Warn("stored series unreadable, starting a new one",
				zap.String("key", key), zap.Error(err))
		}
	}

	now := p.now()
	cutoff := now.Add(-p.cfg.Retention).UnixMilli()
	merged := make(timeseries.Series, 0, len(existing)+len(snaps))
	for _, s := range append(existing, snaps...) {
		if s.TimestampMs > cutoff {
			merged = append(merged, s)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].TimestampMs < merged[j].TimestampMs })

	out, err := json.Marshal(entity.SnapshotFile{VideoID: videoID, UpdatedAt: now.UTC(), Snapshots: merged})
	if err != nil {
		return err
	}
	if err := p.store.Put(ctx, key, out); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Run polls every cfg.Every until ctx is done or Stop is called. A zero interval disables it.
func (p *Poller) Run(ctx context.Context) {
	if p.cfg.Every <= 0 {
		return
	}
	t := time.NewTicker(p.cfg.Every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-t.C:
			if _, err := p.PollOnce(ctx); err != nil {
				p.log.Warn("poll failed", zap.Error(err))
			}
		}
	}
}

// Stop ends Run and makes a best-effort attempt to write buffered snapshots.
func (p *Poller) Stop(ctx context.Context) {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()
	if p.Pending() == 0 {
		return
	}
	for id, err := range p.flush(ctx) {
		if err != nil {
			p.log.Error("snapshots lost on shutdown", zap.String("video_id", id), zap.Error(err))
		}
	}
}

// Pending is the number of buffered snapshots.
func (p *Poller) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.pending {
		n += len(s)
	}
	return n
}
