package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/batch/job"
)

// Logging returns middleware that logs job start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, env *job.Envelope, next Handler) error {
		logger.Info("job started",
			slog.String("job_name", env.Name),
			slog.String("job_id", env.ID),
			slog.String("exchange", env.Exchange),
			slog.String("routing_key", env.RoutingKey),
			slog.Uint64("attempt", uint64(env.Attempt)),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("job failed",
				slog.String("job_name", env.Name),
				slog.String("job_id", env.ID),
				slog.Duration("elapsed", elapsed),
				slog.String("status", job.Outcome(err).String()),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("job completed",
				slog.String("job_name", env.Name),
				slog.String("job_id", env.ID),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
