// Package cache puts a Redis read-through layer in front of a blob store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "view-tracker:blob:"

// Connect opens a client from a redis:// URL and checks it with PING.
func Connect(ctx context.Context, url string, log *zap.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("Redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}

// Store serves Get from Redis while the entry is fresh and writes through on Put. Redis
// failures are logged and the backing store answers instead.
type Store struct {
	next   service.BlobStore
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(next service.BlobStore, client *redis.Client, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{next: next, client: client, ttl: ttl, log: log}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case err == nil:
		return val, nil
	case !errors.Is(err, redis.Nil):
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	data, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.next.Put(ctx, key, data); err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("cache refresh failed, dropping entry", zap.String("key", key), zap.Error(err))
		if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
			s.log.Error("cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
