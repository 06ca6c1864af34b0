package service

//go:generate mockgen -source=contracts.go -destination=mocks/mock_contracts.go -package=mocks

import (
	"context"

	"github.com/dayanaadylkhanova/view-tracker/internal/entity"
)

// BlobStore keeps named text blobs. Get returns ErrBlobNotFound for an absent key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// StatsFetcher reads current counters for a set of videos. Videos the upstream does not
// return are absent from the map.
type StatsFetcher interface {
	FetchStats(ctx context.Context, videoIDs []string) (map[string]entity.VideoStats, error)
}

// VideoSource lists the videos that are currently tracked.
type VideoSource interface {
	List(ctx context.Context) (entity.VideoList, error)
}

// QuotaRecorder gates and records upstream API usage.
type QuotaRecorder interface {
	Cost(endpoint string) int
	Check(ctx context.Context, cost int) error
	Track(ctx context.Context, endpoint string, cost int) (entity.QuotaState, error)
}

type ChartPort interface {
	Query(ctx context.Context, q entity.ChartQuery) (*entity.ChartResult, error)
}

type PollerPort interface {
	PollOnce(ctx context.Context) (*entity.PollReport, error)
	Run(ctx context.Context)
	Stop(ctx context.Context)
}

type VideoRegistryPort interface {
	VideoSource
	Add(ctx context.Context, v entity.Video) (entity.Video, error)
	Update(ctx context.Context, id string, patch entity.VideoPatch) (entity.Video, error)
	Delete(ctx context.Context, id string) (entity.Video, error)
}

type QuotaStatusPort interface {
	Status(ctx context.Context) (entity.QuotaStatus, error)
}
