package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// querier is the part of pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db    querier
	close func()
	log   *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: pool, close: pool.Close, log: log}, nil
}

func (s *Store) Init(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT        PRIMARY KEY,
	content    BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	_, err := s.db.Exec(ctx, ddl)
	return err
}

// Get implements service.BlobStore
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT content FROM blobs WHERE key = $1`
	var content []byte
	if err := s.db.QueryRow(ctx, q, key).Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrBlobNotFound
		}
		return nil, err
	}
	return content, nil
}

// Put implements service.BlobStore
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	const q = `INSERT INTO blobs (key, content, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`
	_, err := s.db.Exec(ctx, q, key, data, time.Now().UTC())
	if err != nil {
		s.log.Warn("blob upsert failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
