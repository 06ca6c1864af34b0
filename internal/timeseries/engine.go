// Package timeseries derives display series and growth figures from cumulative view-count snapshots.
//
// Every computation takes the reference instant as a parameter; nothing here reads the clock
// or performs I/O apart from the injected logger and the optional official-views fallback.
package timeseries

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultGrowthOffset    = 8 * time.Hour
	DefaultFallbackTimeout = 5 * time.Second
)

type Engine struct {
	log             *zap.Logger
	growthOffset    time.Duration
	fallbackTimeout time.Duration
}

// NewEngine returns an engine that reports diagnostics to log. Non-positive timeouts use
// DefaultFallbackTimeout.
func NewEngine(log *zap.Logger, growthOffset, fallbackTimeout time.Duration) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if fallbackTimeout <= 0 {
		fallbackTimeout = DefaultFallbackTimeout
	}
	return &Engine{log: log, growthOffset: growthOffset, fallbackTimeout: fallbackTimeout}
}

func (e *Engine) GrowthOffset() time.Duration { return e.growthOffset }

// Sorted returns a copy of s ordered by timestamp; equal timestamps keep their input order.
func Sorted(s Series) Series { return sortedCopy(s) }

func sortedCopy(s Series) Series {
	out := append(Series(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out
}
