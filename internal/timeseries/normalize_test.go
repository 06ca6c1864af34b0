package timeseries

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop(), DefaultGrowthOffset, 0)
}

func TestNormalizeSeries_LegacyArray(t *testing.T) {
	e := newTestEngine()
	raw := []any{
		map[string]any{"timestamp": float64(fixedNowMs), "viewCount": float64(1700), "likeCount": float64(12)},
		map[string]any{"timestamp": "2023-12-31T00:00:00Z", "viewCount": float64(1200)},
	}

	s, err := e.NormalizeSeries(raw)
	require.NoError(t, err)
	require.Len(t, s, 2)

	// input order is preserved
	assert.Equal(t, fixedNowMs, s[0].TimestampMs)
	assert.Equal(t, int64(1700), s[0].ViewsTotal)
	require.NotNil(t, s[0].LikesTotal)
	assert.Equal(t, int64(12), *s[0].LikesTotal)
	assert.Equal(t, fixedNowMs-24*msPerHour, s[1].TimestampMs)
	assert.Nil(t, s[1].LikesTotal)
}

func TestNormalizeSeries_WrapperWithCurrentNames(t *testing.T) {
	e := newTestEngine()
	raw := map[string]any{
		"video_id": "m2ANkjMRuXc",
		"snapshots": []any{
			map[string]any{"ts": float64(fixedNowMs - 24*msPerHour), "views_total": float64(1200)},
			map[string]any{"timestamp": float64(fixedNowMs), "viewCount": float64(1700)},
		},
	}

	s, err := e.NormalizeSeries(raw)
	require.NoError(t, err)
	assert.Equal(t, Series{
		{TimestampMs: fixedNowMs - 24*msPerHour, ViewsTotal: 1200},
		{TimestampMs: fixedNowMs, ViewsTotal: 1700},
	}, s)
}

func TestNormalizeSeries_FieldPrecedence(t *testing.T) {
	e := newTestEngine()

	t.Run("flat array prefers legacy names", func(t *testing.T) {
		s, err := e.NormalizeSeries([]any{
			map[string]any{"timestamp": float64(fixedNowMs), "ts": float64(1), "viewCount": float64(10), "views_total": float64(20)},
		})
		require.NoError(t, err)
		assert.Equal(t, fixedNowMs, s[0].TimestampMs)
		assert.Equal(t, int64(10), s[0].ViewsTotal)
	})

	t.Run("wrapper prefers current names", func(t *testing.T) {
		s, err := e.NormalizeSeries(map[string]any{"snapshots": []any{
			map[string]any{"timestamp": float64(1), "ts": float64(fixedNowMs), "viewCount": float64(10), "views_total": float64(20)},
		}})
		require.NoError(t, err)
		assert.Equal(t, fixedNowMs, s[0].TimestampMs)
		assert.Equal(t, int64(20), s[0].ViewsTotal)
	})

	t.Run("zero falls through to the other name", func(t *testing.T) {
		s, err := e.NormalizeSeries([]any{
			map[string]any{"timestamp": float64(0), "ts": float64(fixedNowMs), "viewCount": float64(0), "views_total": float64(5)},
		})
		require.NoError(t, err)
		assert.Equal(t, fixedNowMs, s[0].TimestampMs)
		assert.Equal(t, int64(5), s[0].ViewsTotal)
	})
}

func TestNormalizeSeries_PermissiveCounts(t *testing.T) {
	e := newTestEngine()
	s, err := e.NormalizeSeries([]any{
		map[string]any{"timestamp": float64(1), "viewCount": "abc"},
		map[string]any{"timestamp": float64(2)},
		map[string]any{"timestamp": float64(3), "viewCount": "1500"},
		map[string]any{"timestamp": float64(4), "viewCount": float64(-7)},
	})
	require.NoError(t, err)
	require.Len(t, s, 4)
	assert.Equal(t, int64(0), s[0].ViewsTotal)
	assert.Equal(t, int64(0), s[1].ViewsTotal)
	assert.Equal(t, int64(1500), s[2].ViewsTotal)
	assert.Equal(t, int64(0), s[3].ViewsTotal)
}

func TestNormalizeSeries_DropsInvalidTimestamps(t *testing.T) {
	e := newTestEngine()
	s, err := e.NormalizeSeries(map[string]any{"snapshots": []any{
		map[string]any{"ts": "invalid-iso-string", "views_total": float64(1000)},
		map[string]any{"ts": nil, "views_total": float64(1100)},
		"not-a-record",
		map[string]any{"ts": float64(fixedNowMs), "views_total": float64(1700)},
	}})
	require.NoError(t, err)
	assert.Equal(t, Series{{TimestampMs: fixedNowMs, ViewsTotal: 1700}}, s)
}

func TestNormalizeSeries_Errors(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name string
		raw  any
		want error
	}{
		{"nil", nil, ErrInvalidFormat},
		{"string", "garbage", ErrInvalidFormat},
		{"number", float64(42), ErrInvalidFormat},
		{"object without snapshots", map[string]any{"data": []any{}}, ErrInvalidFormat},
		{"snapshots not an array", map[string]any{"snapshots": "x"}, ErrInvalidFormat},
		{"empty array", []any{}, ErrNoValidData},
		{"only invalid timestamps", []any{map[string]any{"timestamp": "nope"}}, ErrNoValidData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := e.NormalizeSeries(tc.raw)
			assert.Empty(t, s)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, IsFormatError(err))
		})
	}
}

func TestNormalizeSeries_CanonicalFormIsFixedPoint(t *testing.T) {
	e := newTestEngine()
	likes := int64(3)
	first, err := e.NormalizeSeries([]any{
		map[string]any{"timestamp": "2023-12-31T12:00:00Z", "viewCount": "900", "likeCount": float64(3)},
		map[string]any{"ts": float64(fixedNowMs), "views_total": float64(1000)},
	})
	require.NoError(t, err)
	assert.Equal(t, &likes, first[0].LikesTotal)

	second, err := e.NormalizeSeries(first.Canonical())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseSeries(t *testing.T) {
	e := newTestEngine()

	s, err := e.ParseSeries([]byte(`{"video_id":"x","snapshots":[{"ts":1704067200000,"views_total":1700,"likes_total":9}]}`))
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, int64(1700), s[0].ViewsTotal)
	assert.Equal(t, int64(9), *s[0].LikesTotal)

	_, err = e.ParseSeries([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNormalizeSeries_CountBeyondInt64IsNotACount(t *testing.T) {
	e := newTestEngine()

	s, err := e.ParseSeries([]byte(`[{"timestamp":1,"viewCount":1e20},{"timestamp":2,"viewCount":"9.3e18"}]`))
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, int64(0), s[0].ViewsTotal)
	assert.Equal(t, int64(0), s[1].ViewsTotal)

	s, err = e.NormalizeSeries([]any{map[string]any{"timestamp": float64(3), "viewCount": float64(1e19)}})
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, int64(0), s[0].ViewsTotal)
}
