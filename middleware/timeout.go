package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/batch"
	"github.com/xraph/batch/job"
)

// errJobDeadline is the cancellation cause of the job's own deadline, which
// tells it apart from a deadline inherited from the caller.
var errJobDeadline = errors.New("job deadline exceeded")

// Timeout returns middleware that enforces the envelope's timeout. With a
// non-zero Timeout the handler runs under context.WithTimeout; once the
// deadline passes the middleware returns batch.ErrTimeout without waiting
// for a handler that ignores its context. A deadline or cancellation
// inherited from the caller's context is returned as ctx.Err(), unwrapped.
// Panics in the handler goroutine are returned as *job.PanicError.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, env *job.Envelope, next Handler) error {
		if env.Timeout <= 0 {
			return next(ctx)
		}

		logger.Debug("job timeout set",
			slog.String("job_id", env.ID),
			slog.Duration("timeout", env.Timeout),
		)
		ctx, cancel := context.WithTimeoutCause(ctx, env.Timeout, errJobDeadline)
		defer cancel()
		expired := func() bool { return errors.Is(context.Cause(ctx), errJobDeadline) }

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- &job.PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			done <- next(ctx)
		}()

		select {
		case err := <-done:
			if err != nil && expired() {
				return fmt.Errorf("%w after %s: %w", batch.ErrTimeout, env.Timeout, err)
			}
			return err
		case <-ctx.Done():
			if expired() {
				return fmt.Errorf("%w after %s", batch.ErrTimeout, env.Timeout)
			}
			return ctx.Err()
		}
	}
}
