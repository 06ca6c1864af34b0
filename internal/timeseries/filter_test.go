package timeseries

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterByRange_StrictCutoff(t *testing.T) {
	now := time.UnixMilli(fixedNowMs)
	s := Series{
		{TimestampMs: fixedNowMs - 25*msPerHour, ViewsTotal: 1},
		{TimestampMs: fixedNowMs - 24*msPerHour, ViewsTotal: 2}, // exactly at the cutoff
		{TimestampMs: fixedNowMs - 24*msPerHour + 1, ViewsTotal: 3},
		{TimestampMs: fixedNowMs, ViewsTotal: 4},
	}

	got := FilterByRange(s, now, 24)
	assert.Equal(t, Series{s[2], s[3]}, got)
}

func TestFilterByRange_AllIsNoop(t *testing.T) {
	now := time.UnixMilli(fixedNowMs)
	s := Series{{TimestampMs: 1, ViewsTotal: 1}, {TimestampMs: fixedNowMs, ViewsTotal: 2}}
	for _, h := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		assert.Equal(t, s, FilterByRange(s, now, h))
	}
}

func TestFilterByRange_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.UnixMilli(fixedNowMs)
	for iter := 0; iter < 200; iter++ {
		s := make(Series, rng.Intn(40))
		for i := range s {
			s[i] = Snapshot{TimestampMs: fixedNowMs - rng.Int63n(100*msPerHour), ViewsTotal: rng.Int63n(1000)}
		}
		hours := float64(1 + rng.Intn(72))
		cutoff := fixedNowMs - int64(hours)*msPerHour

		got := FilterByRange(s, now, hours)
		want := 0
		for _, sn := range s {
			if sn.TimestampMs > cutoff {
				want++
			}
		}
		assert.Len(t, got, want)
		for _, sn := range got {
			assert.Greater(t, sn.TimestampMs, cutoff)
		}
	}
}

func TestParseRangeHours(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"24", 24},
		{"168", 168},
		{"48h", 48},
		{" 6 ", 6},
		{"all", 0},
		{"ALL", 0},
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"-5", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseRangeHours(tc.in), "input %q", tc.in)
	}
}
