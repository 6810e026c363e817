package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/awinkler/bgblwatch/internal/assist"
)

const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *assist.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retryAssistant wraps the assistant client with retry on transient
// failures. The law and date resolvers consume it through the same
// Complete-shaped interface as the raw client.
type retryAssistant struct {
	inner interface {
		Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	}
	log *slog.Logger
}

func (r retryAssistant) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var reply string
	var err error
	for attempt := range MaxRetries {
		reply, err = r.inner.Complete(ctx, prompt, maxTokens)
		if err == nil || !IsRetryable(err) {
			return reply, err
		}
		r.log.Warn("retryable assistant error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}
