package entity

import "github.com/dayanaadylkhanova/view-tracker/internal/timeseries"

type ChartQuery struct {
	VideoID   string
	Range     string
	Interval  string
	WithStats bool
	Limit     int
}

type ChartPoint struct {
	Timestamp int64  `json:"timestamp"`
	ViewCount int64  `json:"viewCount"`
	LikeCount *int64 `json:"likeCount,omitempty"`
	Date      string `json:"date"`
}

type ChartResult struct {
	Video         Video                  `json:"video"`
	Points        []ChartPoint           `json:"data"`
	OriginalCount int                    `json:"originalCount"`
	ReturnedCount int                    `json:"returnedCount"`
	Range         string                 `json:"range"`
	Interval      string                 `json:"interval"`
	Statistics    *timeseries.Statistics `json:"statistics,omitempty"`
}
