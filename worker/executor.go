// Package worker provides the single-delivery execution harness: an
// Executor that runs one envelope through middleware and its registered
// handler, classifies the outcome, reports status, and decides whether
// the job is redelivered.
//
// Consuming from a broker and running executors concurrently are left to
// the caller.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/batch"
	"github.com/xraph/batch/backoff"
	"github.com/xraph/batch/id"
	"github.com/xraph/batch/job"
	"github.com/xraph/batch/middleware"
)

// Result is the outcome of one attempt.
type Result struct {
	// Status is terminal: Success or Failed with its reason.
	Status job.Status

	// Err is the handler error, nil on success.
	Err error

	// Retry is set when the attempt failed and the retries budget allows
	// another. Next is the envelope to redeliver after RetryAfter.
	Retry      bool
	RetryAfter time.Duration
	Next       *job.Envelope
}

// Option configures an Executor.
type Option func(*Executor)

// WithStore reports Started and terminal statuses to s.
func WithStore(s job.StatusStore) Option {
	return func(e *Executor) { e.store = s }
}

// WithBackoff sets the retry delay strategy. Default backoff.DefaultStrategy().
func WithBackoff(s backoff.Strategy) Option {
	return func(e *Executor) { e.backoff = s }
}

// WithLogger sets the logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithMiddleware adds middleware around every execution. They run outside
// the built-in envelope, timeout, and recover middleware, so they observe
// classified errors.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Executor) { e.extra = append(e.extra, mws...) }
}

// Executor runs a single envelope through middleware and the registered
// handler, then reports the outcome and makes the retry decision.
type Executor struct {
	id       id.ExecutorID
	registry *job.Registry
	store    job.StatusStore
	backoff  backoff.Strategy
	logger   *slog.Logger
	extra    []middleware.Middleware
	mw       middleware.Middleware
	now      func() time.Time
}

// NewExecutor creates an Executor dispatching to handlers in registry.
func NewExecutor(registry *job.Registry, opts ...Option) *Executor {
	e := &Executor{
		id:       id.NewExecutorID(),
		registry: registry,
		backoff:  backoff.DefaultStrategy(),
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("executor_id", e.id.String()))

	chain := append([]middleware.Middleware(nil), e.extra...)
	chain = append(chain,
		middleware.Envelope(),
		middleware.Timeout(e.logger),
		middleware.Recover(e.logger),
	)
	e.mw = middleware.Chain(chain...)
	return e
}

// ID returns the executor's identifier.
func (e *Executor) ID() id.ExecutorID { return e.id }

// Execute runs env once. The returned error reports a status store failure
// only; handler failures are described by the Result.
func (e *Executor) Execute(ctx context.Context, env *job.Envelope) (Result, error) {
	status, _ := job.Pending().Transition(job.Started()) //nolint:errcheck // pending → started is always valid
	if err := e.report(ctx, env, status, false, nil); err != nil {
		return Result{}, err
	}

	err := e.mw(ctx, env, func(ctx context.Context) error {
		return e.registry.Handle(ctx, env)
	})

	res := Result{Err: err}
	res.Status, _ = status.Transition(job.Outcome(err)) //nolint:errcheck // started → terminal is always valid

	if err != nil && env.CanRetry() && !errors.Is(err, batch.ErrUnknownJob) {
		res.Retry = true
		res.Next = env.Redeliver()
		res.RetryAfter = e.backoff.Delay(res.Next.Attempt)

		e.logger.Info("job scheduled for retry",
			slog.String("job_id", env.ID),
			slog.String("job_name", env.Name),
			slog.String("status", res.Status.String()),
			slog.Uint64("attempt", uint64(res.Next.Attempt)),
			slog.Uint64("retries", uint64(env.Retries)),
			slog.Duration("delay", res.RetryAfter),
		)
	} else if err != nil {
		e.logger.Warn("job failed permanently",
			slog.String("job_id", env.ID),
			slog.String("job_name", env.Name),
			slog.String("status", res.Status.String()),
			slog.Uint64("attempt", uint64(env.Attempt)),
			slog.String("error", err.Error()),
		)
	}

	if storeErr := e.report(ctx, env, res.Status, res.Retry, err); storeErr != nil {
		return res, storeErr
	}
	return res, nil
}

func (e *Executor) report(ctx context.Context, env *job.Envelope, status job.Status, retry bool, handlerErr error) error {
	if e.store == nil {
		return nil
	}
	rec := &job.Record{
		ID:        env.ID,
		Name:      env.Name,
		Status:    status,
		Attempt:   env.Attempt,
		Retry:     retry,
		UpdatedAt: e.now(),
	}
	if handlerErr != nil {
		rec.Error = handlerErr.Error()
	}
	if err := e.store.SetStatus(ctx, rec); err != nil {
		e.logger.Error("failed to store job status",
			slog.String("job_id", env.ID),
			slog.String("status", status.String()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
