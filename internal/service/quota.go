package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultQuotaLimit = 10000
	quotaCacheTTL     = time.Minute
	maxQuotaCalls     = 1000
)

var apiCosts = map[string]int{
	"videos.list":         1,
	"search.list":         100,
	"channels.list":       1,
	"playlistItems.list":  1,
	"playlists.list":      1,
	"comments.list":       1,
	"commentThreads.list": 1,
}

// QuotaTracker keeps the YouTube Data API daily usage ledger. The quota day starts at
// midnight Pacific time.
type QuotaTracker struct {
	log   *zap.Logger
	store BlobStore
	limit int
	loc   *time.Location
	now   func() time.Time

	mu       sync.Mutex
	state    *entity.QuotaState
	loadedAt time.Time
}

func NewQuotaTracker(log *zap.Logger, store BlobStore, limit int) *QuotaTracker {
	if limit <= 0 {
		limit = DefaultQuotaLimit
	}
	return &QuotaTracker{log: log, store: store, limit: limit, loc: pacificLocation(), now: time.Now}
}

func (q *QuotaTracker) WithClock(now func() time.Time) *QuotaTracker {
	q.now = now
	return q
}

func pacificLocation() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.FixedZone("PST", -8*60*60)
	}
	return loc
}

// Cost returns the unit cost of an endpoint; unknown endpoints cost 1.
func (q *QuotaTracker) Cost(endpoint string) int {
	if c, ok := apiCosts[endpoint]; ok {
		return c
	}
	return 1
}

func (q *QuotaTracker) Check(ctx context.Context, cost int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	st := q.current(ctx)
	if st.Usage+cost > q.limit {
		return &QuotaExceededError{Used: st.Usage, Limit: q.limit, Requested: cost, ResetTime: q.nextReset()}
	}
	return nil
}

// Track records one call. A failed write is logged and the in-memory ledger is kept.
func (q *QuotaTracker) Track(ctx context.Context, endpoint string, cost int) (entity.QuotaState, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	st := q.current(ctx)
	st.Usage += cost
	st.Calls = append(st.Calls, entity.QuotaCall{Timestamp: q.now().UTC(), Endpoint: endpoint, Cost: cost})
	if n := len(st.Calls); n > maxQuotaCalls {
		st.Calls = append([]entity.QuotaCall(nil), st.Calls[n-maxQuotaCalls:]...)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err == nil {
		err = q.store.Put(ctx, QuotaKey, data)
	}
	if err != nil {
		q.log.Warn("quota ledger not persisted", zap.Error(err))
	}

	q.log.Debug("YouTube API quota consumed",
		zap.String("endpoint", endpoint),
		zap.Int("cost", cost),
		zap.Int("used", st.Usage),
		zap.Int("remaining", q.limit-st.Usage))
	if q.limit-st.Usage < q.limit/10 {
		q.log.Warn("YouTube API quota running low",
			zap.Int("remaining", q.limit-st.Usage),
			zap.Time("resetTime", q.nextReset()))
	}
	return copyState(st), nil
}

func (q *QuotaTracker) Status(ctx context.Context) (entity.QuotaStatus, error) {
	q.mu.Lock()
	st := copyState(q.current(ctx))
	q.mu.Unlock()

	now := q.now()
	reset := q.nextReset()
	untilMs := reset.Sub(now).Milliseconds()
	pct := decimal.NewFromInt(int64(st.Usage)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(q.limit))).
		Round(2)

	return entity.QuotaStatus{
		Date:       st.Date,
		Usage:      st.Usage,
		Limit:      q.limit,
		Remaining:  max(0, q.limit-st.Usage),
		Percentage: pct,
		Calls:      len(st.Calls),
		ResetAt:    reset.UTC(),
		ResetTime: entity.ResetIn{
			Hours:             int(untilMs / time.Hour.Milliseconds()),
			Minutes:           int(untilMs % time.Hour.Milliseconds() / time.Minute.Milliseconds()),
			TotalMilliseconds: untilMs,
		},
	}, nil
}

// current returns today's ledger, loading it when the cached copy is stale and resetting it
// when the Pacific date has changed. Callers hold q.mu.
func (q *QuotaTracker) current(ctx context.Context) *entity.QuotaState {
	today := q.today()
	if q.state == nil || q.now().Sub(q.loadedAt) >= quotaCacheTTL {
		if st, err := q.load(ctx); err != nil {
			q.log.Warn("quota ledger unavailable", zap.Error(err))
			if q.state == nil {
				q.state = &entity.QuotaState{Date: today}
			}
		} else {
			q.state = st
			q.loadedAt = q.now()
		}
	}
	if q.state.Date != today {
		q.log.Info("YouTube API quota reset", zap.String("date", today))
		q.state = &entity.QuotaState{Date: today}
	}
	return q.state
}

func (q *QuotaTracker) load(ctx context.Context) (*entity.QuotaState, error) {
	data, err := q.store.Get(ctx, QuotaKey)
	if errors.Is(err, ErrBlobNotFound) {
		return &entity.QuotaState{Date: q.today()}, nil
	}
	if err != nil {
		return nil, err
	}
	var st entity.QuotaState
	if err := json.Unmarshal(data, &st); err != nil {
		q.log.Warn("stored quota ledger is not valid JSON", zap.Error(err))
		return &entity.QuotaState{Date: q.today()}, nil
	}
	return &st, nil
}

func (q *QuotaTracker) today() string { return q.now().In(q.loc).Format(time.DateOnly) }

func (q *QuotaTracker) nextReset() time.Time { return nextMidnight(q.now(), q.loc) }

// NextQuotaReset is the next midnight Pacific time after now.
func NextQuotaReset(now time.Time) time.Time { return nextMidnight(now, pacificLocation()) }

func nextMidnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
}

func copyState(st *entity.QuotaState) entity.QuotaState {
	out := *st
	out.Calls = append([]entity.QuotaCall(nil), st.Calls...)
	return out
}
