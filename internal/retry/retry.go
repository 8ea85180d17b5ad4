package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// Ensure Backend implements model.Backend.
var _ model.Backend = (*Backend)(nil)

// Backend is a decorator that retries transient failures with exponential
// backoff and jitter before giving up.
type Backend struct {
	inner      model.Backend
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewBackend wraps a Backend with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewBackend(inner model.Backend, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Backend {
	return &Backend{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Post sends the request, retrying on transient errors.
func (b *Backend) Post(ctx context.Context, endpoint string, payload any) (string, error) {
	html, err := b.inner.Post(ctx, endpoint, payload)
	if err == nil || !isRetryable(err) {
		return html, err
	}

	lastErr := err
	for attempt := 1; attempt <= b.maxRetries; attempt++ {
		delay := b.backoffDelay(attempt)

		b.logger.Warn("retrying after transient error",
			"endpoint", endpoint,
			"attempt", attempt,
			"max_retries", b.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		html, err = b.inner.Post(ctx, endpoint, payload)
		if err == nil || !isRetryable(err) {
			return html, err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
func (b *Backend) backoffDelay(attempt int) time.Duration {
	// Exponential: baseDelay * 2^(attempt-1)
	delay := b.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a failure where the backend most likely
// never ran the analysis: connection errors, rate limiting and gateway errors.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	// Only failures of the round trip itself. A TransportError over an
	// unreadable 2xx body means the analysis already ran.
	var tErr *model.TransportError
	var urlErr *url.Error
	return errors.As(err, &tErr) && errors.As(tErr.Err, &urlErr)
}
