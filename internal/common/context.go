package common

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Done reports whether ctx is finished, without blocking
func Done(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// StopRequested is Done that also logs which loop is stopping
func StopRequested(ctx context.Context, logger zerolog.Logger, operation string) bool {
	if !Done(ctx) {
		return false
	}
	logger.Info().Str("operation", operation).Err(ctx.Err()).Msg("Stop requested")
	return true
}

// WaitWithCancellation sleeps for duration or until ctx is done.
// A non-positive duration only reports ctx.Err().
func WaitWithCancellation(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsContextError reports whether err comes from cancellation or a deadline
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
