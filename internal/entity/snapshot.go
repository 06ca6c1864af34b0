package entity

import (
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/timeseries"
)

// SnapshotFile is the stored per-video blob. Older blobs are flat arrays of
// {timestamp, viewCount, ...} records; readers accept both.
type SnapshotFile struct {
	VideoID   string            `json:"video_id"`
	UpdatedAt time.Time         `json:"updated_at"`
	Snapshots timeseries.Series `json:"snapshots"`
}

// VideoStats is what the statistics API reports for one video at poll time.
type VideoStats struct {
	VideoID   string `json:"videoId"`
	ViewCount int64  `json:"viewCount"`
	LikeCount *int64 `json:"likeCount,omitempty"`
}

type PollResult struct {
	VideoID   string `json:"videoId"`
	VideoName string `json:"videoName"`
	Success   bool   `json:"success"`
	ViewCount int64  `json:"viewCount,omitempty"`
	LikeCount *int64 `json:"likeCount,omitempty"`
	Error     string `json:"error,omitempty"`
}

type PollSummary struct {
	TotalVideos int   `json:"totalVideos"`
	Successful  int   `json:"successful"`
	Failed      int   `json:"failed"`
	TotalViews  int64 `json:"totalViews"`
}

type PollReport struct {
	Timestamp time.Time    `json:"timestamp"`
	Results   []PollResult `json:"results"`
	Summary   PollSummary  `json:"summary"`
}
