package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGist     = "gist"
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"

	EnvProduction = "production"
)

const defaultVideos = "m2ANkjMRuXc:純粋とは何か?:#0070f3,NReeTQ3YTAU:ビリヤニ:#10b981,bobUT-j6PeQ:スノウゴースト:#f59e0b"

// DefaultVideo is a tracked video used until a user-managed list is stored.
type DefaultVideo struct {
	ID    string
	Name  string
	Color string
}

type Config struct {
	ListenAddr   string
	LogLevel     string
	MaxCPU       int
	ShutdownWait time.Duration
	Environment  string

	BlobBackend       string
	GistID            string
	GitHubToken       string
	GitHubAPIBaseURL  string
	DatabaseURL       string
	GCSBucket         string
	GCSPrefix         string
	RedisURL          string
	CacheTTL          time.Duration
	LegacyDataVideoID string

	YouTubeAPIKey     string
	YouTubeChannelID  string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRefreshToken string
	AnalyticsTimezone string
	FallbackTimeout   time.Duration
	CronAuthToken     string
	QuotaLimit        int
	PollEvery         time.Duration
	PollConcurrency   int
	RetentionDays     int
	DefaultVideos     []DefaultVideo
	GrowthOffsetHours int
	ResampleTimezone  string
}

// Parse reads the process environment, after loading a local .env file when one exists.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	c := &Config{}
	c.ListenAddr = getenv("LISTEN_ADDR", ":3000")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.MaxCPU = mustInt(getenv("MAX_CPU", "0"))
	c.ShutdownWait = mustDuration(getenv("SHUTDOWN_WAIT", "5s"), 5*time.Second)
	c.Environment = strings.ToLower(getenv("ENVIRONMENT", "development"))

	c.BlobBackend = strings.ToLower(getenv("BLOB_BACKEND", BackendGist))
	c.GistID = strings.TrimSpace(getenv("GIST_ID", ""))
	c.GitHubToken = strings.TrimSpace(getenv("GITHUB_TOKEN", ""))
	c.GitHubAPIBaseURL = getenv("GITHUB_API_BASE_URL", "https://api.github.com")
	c.DatabaseURL = getenv("DATABASE_URL", "")
	c.GCSBucket = getenv("GCS_BUCKET", "")
	c.GCSPrefix = getenv("GCS_PREFIX", "")
	c.RedisURL = getenv("REDIS_URL", "")
	c.CacheTTL = mustDuration(getenv("CACHE_TTL", "60s"), time.Minute)
	c.LegacyDataVideoID = getenv("LEGACY_DATA_VIDEO_ID", "m2ANkjMRuXc")

	c.YouTubeAPIKey = strings.TrimSpace(getenv("YOUTUBE_API_KEY", ""))
	c.YouTubeChannelID = getenv("YOUTUBE_CHANNEL_ID", "")
	c.OAuthClientID = getenv("YOUTUBE_OAUTH_CLIENT_ID", "")
	c.OAuthClientSecret = getenv("YOUTUBE_OAUTH_CLIENT_SECRET", "")
	c.OAuthRefreshToken = getenv("YOUTUBE_OAUTH_REFRESH_TOKEN", "")
	c.AnalyticsTimezone = getenv("ANALYTICS_TIMEZONE", "America/Los_Angeles")
	c.FallbackTimeout = mustDuration(getenv("FALLBACK_TIMEOUT", "5s"), 5*time.Second)
	c.CronAuthToken = strings.TrimSpace(getenv("CRON_AUTH_TOKEN", ""))
	c.QuotaLimit = mustInt(getenv("QUOTA_LIMIT", "10000"))
	c.PollEvery = mustDuration(getenv("POLL_EVERY", "1h"), time.Hour)
	c.PollConcurrency = mustInt(getenv("POLL_CONCURRENCY", "2"))
	c.RetentionDays = mustInt(getenv("RETENTION_DAYS", "30"))
	c.GrowthOffsetHours = mustInt(getenv("GROWTH_UTC_OFFSET_HOURS", "8"))
	c.ResampleTimezone = getenv("RESAMPLE_TZ", "")

	videos, err := ParseDefaultVideos(getenv("DEFAULT_VIDEOS", defaultVideos))
	if err != nil {
		errs = append(errs, err)
	}
	c.DefaultVideos = videos

	switch c.BlobBackend {
	case BackendGist:
		if c.GistID == "" {
			errs = append(errs, errors.New("GIST_ID is required for the gist backend"))
		}
		if c.GitHubToken == "" {
			errs = append(errs, errors.New("GITHUB_TOKEN is required for the gist backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required for the gcs backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("BLOB_BACKEND %q is not supported", c.BlobBackend))
	}
	if c.IsProduction() && c.CronAuthToken == "" {
		errs = append(errs, errors.New("CRON_AUTH_TOKEN is required in production"))
	}
	if c.PollConcurrency <= 0 {
		errs = append(errs, errors.New("POLL_CONCURRENCY must be > 0"))
	}
	if c.RetentionDays <= 0 {
		errs = append(errs, errors.New("RETENTION_DAYS must be > 0"))
	}
	if c.QuotaLimit <= 0 {
		errs = append(errs, errors.New("QUOTA_LIMIT must be > 0"))
	}
	if c.GrowthOffsetHours < -12 || c.GrowthOffsetHours > 14 {
		errs = append(errs, errors.New("GROWTH_UTC_OFFSET_HOURS must be within [-12, 14]"))
	}
	if c.PollEvery < 0 {
		errs = append(errs, errors.New("POLL_EVERY must be >= 0"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// AnalyticsEnabled reports whether the official 24h fallback has credentials.
func (c *Config) AnalyticsEnabled() bool {
	return c.YouTubeChannelID != "" && c.OAuthClientID != "" && c.OAuthClientSecret != "" && c.OAuthRefreshToken != ""
}

// ParseDefaultVideos parses "id:name[:color],id:name[:color]".
func ParseDefaultVideos(s string) ([]DefaultVideo, error) {
	var out []DefaultVideo
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("DEFAULT_VIDEOS entry %q must look like id:name", item)
		}
		v := DefaultVideo{ID: strings.TrimSpace(parts[0]), Name: strings.TrimSpace(parts[1])}
		if len(parts) == 3 {
			v.Color = strings.TrimSpace(parts[2])
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("DEFAULT_VIDEOS must name at least one video")
	}
	return out, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustInt(s string) int { n, _ := strconv.Atoi(strings.TrimSpace(s)); return n }

func mustDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return d
}
