package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// MaxRetries is the maximum number of retries for transient failures.
	MaxRetries = 3
	// RetryInitialInterval is the first wait between attempts.
	RetryInitialInterval = 500 * time.Millisecond
	// RetryMaxInterval caps the wait between attempts.
	RetryMaxInterval = 5 * time.Second
)

// NewRetryBackoff returns a jittered exponential backoff bound to ctx.
func NewRetryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryInitialInterval
	b.MaxInterval = RetryMaxInterval
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx)
}

// IsRetryable checks if an error is transient and worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "temporary failure")
}

// StatusError reports a non-200 answer from a provider endpoint
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

func statusError(code int) error {
	return &StatusError{Code: code}
}

func permanent(err error) error {
	return backoff.Permanent(err)
}

// withRetry runs fn until it succeeds, fails permanently or the backoff
// gives up. Only errors accepted by IsRetryable are retried.
func (p *BaseProvider) withRetry(ctx context.Context, fn func() error) error {
	op := func() error {
		err := fn()
		if err != nil && !IsRetryable(err) {
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				return err
			}
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, p.newBackoff(ctx))
}
