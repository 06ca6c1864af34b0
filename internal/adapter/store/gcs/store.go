// Package gcs keeps blobs as JSON objects in a Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"go.uber.org/zap"
)

// ObjectOperations abstracts the bucket calls the store makes.
type ObjectOperations interface {
	GetObject(ctx context.Context, bucket, name string) ([]byte, error)
	PutObject(ctx context.Context, bucket, name string, data []byte) error
	Close() error
}

type cloudObjects struct {
	client *storage.Client
}

func (c *cloudObjects) GetObject(ctx context.Context, bucket, name string) ([]byte, error) {
	r, err := c.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (c *cloudObjects) PutObject(ctx context.Context, bucket, name string, data []byte) error {
	w := c.client.Bucket(bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (c *cloudObjects) Close() error { return c.client.Close() }

type Store struct {
	ops    ObjectOperations
	bucket string
	prefix string
	log    *zap.Logger
}

// New connects with application default credentials.
func New(ctx context.Context, bucket, prefix string, log *zap.Logger) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return NewWithOperations(&cloudObjects{client: client}, bucket, prefix, log), nil
}

func NewWithOperations(ops ObjectOperations, bucket, prefix string, log *zap.Logger) *Store {
	return &Store{ops: ops, bucket: bucket, prefix: prefix, log: log}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.ops.GetObject(ctx, s.bucket, s.object(key))
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, service.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", s.bucket, s.object(key), err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.ops.PutObject(ctx, s.bucket, s.object(key), data); err != nil {
		return fmt.Errorf("write gs://%s/%s: %w", s.bucket, s.object(key), err)
	}
	s.log.Debug("object written", zap.String("object", s.object(key)), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) Close() error { return s.ops.Close() }

func (s *Store) object(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
