// Package retry runs upstream calls with exponential backoff. Client errors are final.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

const DefaultAttempts = 3

// StatusError is an HTTP response that was not 2xx.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

type Policy struct {
	Attempts int
	Backoff  gax.Backoff
	Log      *zap.Logger
}

// Default allows three attempts with pauses growing from two seconds.
func Default(log *zap.Logger) Policy {
	return Policy{
		Attempts: DefaultAttempts,
		Backoff:  gax.Backoff{Initial: 2 * time.Second, Max: 8 * time.Second, Multiplier: 2},
		Log:      log,
	}
}

var sleep = gax.Sleep

// Do calls fn until it succeeds, returns a non-retryable error, or attempts run out.
// The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	bo := p.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= attempts || !Retryable(err) {
			return err
		}
		wait := bo.Pause()
		if p.Log != nil {
			p.Log.Warn("upstream call failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("wait", wait),
				zap.Error(err))
		}
		if serr := sleep(ctx, wait); serr != nil {
			return err
		}
	}
}

// Retryable reports whether err is worth another attempt. 4xx responses other than 429 and
// context cancellation are final; 5xx and transport failures are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return retryableCode(gerr.Code)
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return retryableCode(serr.Code)
	}
	return true
}

func retryableCode(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
