package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2025-10-19 10:30 in Los Angeles (PDT, UTC-7).
var quotaNow = time.Date(2025, 10, 19, 17, 30, 0, 0, time.UTC)

func newTestQuota(store BlobStore, limit int) (*QuotaTracker, *time.Time) {
	now := quotaNow
	q := NewQuotaTracker(zap.NewNop(), store, limit).WithClock(func() time.Time { return now })
	return q, &now
}

func TestQuotaTracker_Cost(t *testing.T) {
	q, _ := newTestQuota(newMemStore(), 0)
	assert.Equal(t, 1, q.Cost("videos.list"))
	assert.Equal(t, 100, q.Cost("search.list"))
	assert.Equal(t, 1, q.Cost("unknown.endpoint"))
}

func TestQuotaTracker_TrackPersistsLedger(t *testing.T) {
	store := newMemStore()
	q, _ := newTestQuota(store, 100)
	ctx := context.Background()

	st, err := q.Track(ctx, "videos.list", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-19", st.Date)
	assert.Equal(t, 1, st.Usage)

	_, err = q.Track(ctx, "search.list", 100-1-5)
	require.NoError(t, err)

	var saved entity.QuotaState
	require.NoError(t, json.Unmarshal(store.blobs[QuotaKey], &saved))
	assert.Equal(t, 95, saved.Usage)
	require.Len(t, saved.Calls, 2)
	assert.Equal(t, "search.list", saved.Calls[1].Endpoint)
}

func TestQuotaTracker_CheckRejectsOverLimit(t *testing.T) {
	store := newMemStore()
	store.set(QuotaKey, entity.QuotaState{Date: "2025-10-19", Usage: 9999})
	q, _ := newTestQuota(store, 10000)
	ctx := context.Background()

	require.NoError(t, q.Check(ctx, 1))

	err := q.Check(ctx, 2)
	var qe *QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 9999, qe.Used)
	assert.Equal(t, 2, qe.Requested)
	// next Pacific midnight: 2025-10-20 00:00 PDT
	assert.Equal(t, time.Date(2025, 10, 20, 7, 0, 0, 0, time.UTC), qe.ResetTime.UTC())
}

func TestQuotaTracker_ResetsOnNewPacificDay(t *testing.T) {
	store := newMemStore()
	store.set(QuotaKey, entity.QuotaState{Date: "2025-10-18", Usage: 10000})
	q, now := newTestQuota(store, 10000)
	ctx := context.Background()

	require.NoError(t, q.Check(ctx, 1), "yesterday's usage must not count")

	_, err := q.Track(ctx, "videos.list", 10000)
	require.NoError(t, err)
	require.Error(t, q.Check(ctx, 1))

	// 2025-10-20 00:05 PDT
	*now = time.Date(2025, 10, 20, 7, 5, 0, 0, time.UTC)
	assert.NoError(t, q.Check(ctx, 1))
}

func TestQuotaTracker_StoreFailureKeepsMemoryLedger(t *testing.T) {
	store := newMemStore()
	q, _ := newTestQuota(store, 10)
	ctx := context.Background()

	store.putErr = errors.New("write failed")
	st, err := q.Track(ctx, "videos.list", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Usage)

	store.getErr = errors.New("read failed")
	status, err := q.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, status.Usage)
}

func TestQuotaTracker_CallsAreCapped(t *testing.T) {
	q, _ := newTestQuota(newMemStore(), 1_000_000)
	ctx := context.Background()

	var st entity.QuotaState
	var err error
	for range maxQuotaCalls + 5 {
		st, err = q.Track(ctx, "videos.list", 1)
		require.NoError(t, err)
	}
	assert.Len(t, st.Calls, maxQuotaCalls)
	assert.Equal(t, maxQuotaCalls+5, st.Usage)
}

func TestQuotaTracker_Status(t *testing.T) {
	store := newMemStore()
	store.set(QuotaKey, entity.QuotaState{Date: "2025-10-19", Usage: 1234, Calls: []entity.QuotaCall{{Endpoint: "videos.list", Cost: 1}}})
	q, _ := newTestQuota(store, 10000)

	st, err := q.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-10-19", st.Date)
	assert.Equal(t, 8766, st.Remaining)
	assert.Equal(t, "12.34", st.Percentage.String())
	assert.Equal(t, 1, st.Calls)
	// 10:30 PDT to midnight
	assert.Equal(t, 13, st.ResetTime.Hours)
	assert.Equal(t, 30, st.ResetTime.Minutes)
	assert.Equal(t, (13*time.Hour + 30*time.Minute).Milliseconds(), st.ResetTime.TotalMilliseconds)
}
