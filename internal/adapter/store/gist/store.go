// Package gist keeps blobs as files of a single GitHub gist.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/dayanaadylkhanova/view-tracker/pkg/retry"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.github.com"
	userAgent      = "view-tracker/2.0"
	maxErrorBody   = 200
)

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistDoc struct {
	Files map[string]*gistFile `json:"files"`
}

type Store struct {
	log     *zap.Logger
	gistID  string
	token   string
	baseURL string
	client  *http.Client
	retry   retry.Policy
}

func New(log *zap.Logger, gistID, token, baseURL string) *Store {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Store{
		log:     log,
		gistID:  gistID,
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   retry.Default(log),
	}
}

func (s *Store) WithHTTPClient(c *http.Client) *Store {
	s.client = c
	return s
}

func (s *Store) WithRetry(p retry.Policy) *Store {
	s.retry = p
	return s
}

// Get returns the content of file key. A gist without that file yields service.ErrBlobNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc gistDoc
	err := s.retry.Do(ctx, "gist.get", func(ctx context.Context) error {
		body, err := s.do(ctx, http.MethodGet, s.gistURL(), nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("read gist %s: %w", s.gistID, err)
	}

	f, ok := doc.Files[key]
	if !ok || f == nil {
		return nil, service.ErrBlobNotFound
	}
	if !f.Truncated {
		return []byte(f.Content), nil
	}

	var raw []byte
	err = s.retry.Do(ctx, "gist.raw", func(ctx context.Context) error {
		var rerr error
		raw, rerr = s.do(ctx, http.MethodGet, f.RawURL, nil)
		return rerr
	})
	if err != nil {
		return nil, fmt.Errorf("read raw %s: %w", key, err)
	}
	return raw, nil
}

// Put replaces file key, creating it when absent.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	payload, err := json.Marshal(map[string]any{
		"files": map[string]gistFile{key: {Content: string(data)}},
	})
	if err != nil {
		return err
	}
	err = s.retry.Do(ctx, "gist.patch", func(ctx context.Context) error {
		_, err := s.do(ctx, http.MethodPatch, s.gistURL(), payload)
		return err
	})
	if err != nil {
		return fmt.Errorf("update gist %s file %s: %w", s.gistID, key, err)
	}
	s.log.Debug("gist file updated", zap.String("file", key), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) gistURL() string { return s.baseURL + "/gists/" + s.gistID }

func (s *Store) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+s.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &retry.StatusError{Code: resp.StatusCode, Body: msg}
	}
	return data, nil
}
