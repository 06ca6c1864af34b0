package timeseries

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	ReasonInvalidFormat    = "invalid_format"
	ReasonNoValidData      = "no_valid_data"
	ReasonInsufficientData = "insufficient_data"
	ReasonNoBaseFound      = "no_base_found"
)

// FormatError reports a raw collection that cannot produce a series.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "timeseries: " + e.Reason }

func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	return ok && t.Reason == e.Reason
}

var (
	ErrInvalidFormat = &FormatError{Reason: ReasonInvalidFormat}
	ErrNoValidData   = &FormatError{Reason: ReasonNoValidData}
)

// Snapshot is one observation of a video's cumulative counters.
type Snapshot struct {
	TimestampMs int64  `json:"ts"`
	ViewsTotal  int64  `json:"views_total"`
	LikesTotal  *int64 `json:"likes_total,omitempty"`
}

// Series is a sequence of snapshots for one video.
type Series []Snapshot

// Canonical renders s in the wrapper shape accepted by NormalizeSeries.
func (s Series) Canonical() map[string]any {
	items := make([]any, 0, len(s))
	for _, sn := range s {
		m := map[string]any{"ts": sn.TimestampMs, "views_total": sn.ViewsTotal}
		if sn.LikesTotal != nil {
			m["likes_total"] = *sn.LikesTotal
		}
		items = append(items, m)
	}
	return map[string]any{"snapshots": items}
}

// recordShape selects the field-name precedence of a stored record.
type recordShape int

const (
	// legacyShape is an element of a flat array: timestamp/viewCount/likeCount win.
	legacyShape recordShape = iota
	// currentShape is an element of a {snapshots: [...]} wrapper: ts/views_total/likes_total win.
	currentShape
)

type fieldNames struct {
	ts, views, likes [2]string
}

var shapeFields = map[recordShape]fieldNames{
	legacyShape: {
		ts:    [2]string{"timestamp", "ts"},
		views: [2]string{"viewCount", "views_total"},
		likes: [2]string{"likeCount", "likes_total"},
	},
	currentShape: {
		ts:    [2]string{"ts", "timestamp"},
		views: [2]string{"views_total", "viewCount"},
		likes: [2]string{"likes_total", "likeCount"},
	},
}

// ParseSeries decodes a stored JSON blob and normalizes it.
func (e *Engine) ParseSeries(data []byte) (Series, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, ErrInvalidFormat
	}
	return e.NormalizeSeries(raw)
}

// NormalizeSeries converts a flat record array or a {snapshots: [...]} wrapper into a Series.
// Records whose timestamp cannot be normalized are dropped. The result keeps input order.
func (e *Engine) NormalizeSeries(raw any) (Series, error) {
	var (
		items []any
		shape recordShape
	)
	switch x := raw.(type) {
	case Series:
		if len(x) == 0 {
			return nil, ErrNoValidData
		}
		return append(Series(nil), x...), nil
	case []any:
		items, shape = x, legacyShape
	case map[string]any:
		arr, ok := x["snapshots"].([]any)
		if !ok {
			return nil, ErrInvalidFormat
		}
		items, shape = arr, currentShape
	default:
		return nil, ErrInvalidFormat
	}

	names := shapeFields[shape]
	out := make(Series, 0, len(items))
	dropped := 0
	for _, it := range items {
		rec, ok := it.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		ts, ok := NormalizeTimestamp(firstTruthy(rec, names.ts))
		if !ok {
			dropped++
			continue
		}
		sn := Snapshot{TimestampMs: ts, ViewsTotal: parseCount(firstTruthy(rec, names.views))}
		if v := firstTruthy(rec, names.likes); v != nil {
			if n, ok := countValue(v); ok {
				sn.LikesTotal = &n
			}
		}
		out = append(out, sn)
	}
	if dropped > 0 {
		e.log.Debug("dropped snapshots with invalid timestamps",
			zap.Int("dropped", dropped), zap.Int("kept", len(out)))
	}
	if len(out) == 0 {
		return nil, ErrNoValidData
	}
	return out, nil
}

// firstTruthy returns the first of the two fields that holds a truthy value,
// or the second field's value when neither does.
func firstTruthy(rec map[string]any, keys [2]string) any {
	if v := rec[keys[0]]; truthy(v) {
		return v
	}
	return rec[keys[1]]
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// parseCount is permissive: anything that is not a non-negative number counts as zero.
func parseCount(v any) int64 {
	n, _ := countValue(v)
	return n
}

func countValue(v any) (int64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			if n < 0 {
				return 0, false
			}
			return n, true
		}
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// IsFormatError reports whether err is one of the normalizer's series-level errors.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
