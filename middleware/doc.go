// Package middleware provides composable middleware for job execution.
//
// A [Middleware] is a function that wraps a job handler. Middleware are
// composed into a chain using [Chain] and applied before each envelope
// executes. They are applied right-to-left: the first middleware in the
// slice is the outermost wrapper.
//
//	// logging → timeout → recover → handler
//	chain := middleware.Chain(
//	    middleware.Logging(logger),
//	    middleware.Timeout(logger),
//	    middleware.Recover(logger),
//	)
//
// # Built-in Middleware
//
//   - [Logging] — logs job name, route, duration, and outcome
//   - [Recover] — turns panics into *job.PanicError (a Crash failure)
//   - [Timeout] — enforces the envelope timeout; expiry is a Timeout failure
//   - [Tracing] — wraps execution in an OpenTelemetry span
//   - [Metrics] — records per-job duration and outcome counters
//   - [Envelope] — makes the envelope available via [EnvelopeFrom]
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, env *job.Envelope, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting.
package middleware
