package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/batch/job"
)

// Recover returns middleware that recovers from panics in the handler chain.
// A panic becomes a *job.PanicError, which job.Classify maps to
// job.FailureCrash, and is logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, env *job.Envelope, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				pe := &job.PanicError{Value: r, Stack: debug.Stack()}
				logger.Error("job handler panicked",
					slog.String("job_name", env.Name),
					slog.String("job_id", env.ID),
					slog.Any("panic", r),
					slog.String("stack", string(pe.Stack)),
				)
				retErr = pe
			}
		}()
		return next(ctx)
	}
}
