package middleware

import (
	"context"

	"github.com/xraph/batch/job"
)

type envelopeKey struct{}

// Envelope returns middleware that exposes the executing envelope to the
// handler through the context, so handlers can read the job ID and
// attempt number.
func Envelope() Middleware {
	return func(ctx context.Context, env *job.Envelope, next Handler) error {
		return next(context.WithValue(ctx, envelopeKey{}, env))
	}
}

// EnvelopeFrom returns the envelope stored by the Envelope middleware.
func EnvelopeFrom(ctx context.Context) (*job.Envelope, bool) {
	env, ok := ctx.Value(envelopeKey{}).(*job.Envelope)
	return env, ok
}
