package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/batch"
	"github.com/xraph/batch/backoff"
	"github.com/xraph/batch/job"
	"github.com/xraph/batch/middleware"
	"github.com/xraph/batch/store/memory"
	"github.com/xraph/batch/worker"
)

type task struct {
	Mode string `json:"mode"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T, opts ...job.Option) (*worker.Executor, *job.Registry, *job.Definition[task], *memory.Store) {
	t.Helper()
	def := job.NewDefinition(func(ctx context.Context, p task) error {
		switch p.Mode {
		case "error":
			return errors.New("smtp: 550 mailbox unavailable")
		case "panic":
			panic("nil mailer")
		case "downstream-deadline":
			return fmt.Errorf("smtp dial: %w", context.DeadlineExceeded)
		case "hang":
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}, opts...)

	reg := job.NewRegistry()
	if err := job.Register(reg, def); err != nil {
		t.Fatalf("Register: %v", err)
	}
	st := memory.New()
	exec := worker.NewExecutor(reg,
		worker.WithStore(st),
		worker.WithBackoff(backoff.NewConstant(3*time.Second)),
		worker.WithLogger(quietLogger()),
	)
	return exec, reg, def, st
}

func run(t *testing.T, exec *worker.Executor, reg *job.Registry, def *job.Definition[task], mode string) (*job.Envelope, worker.Result) {
	t.Helper()
	env, err := job.Enqueue(reg, def, task{Mode: mode})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	res, err := exec.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return env, res
}

func TestExecutor_Outcomes(t *testing.T) {
	tests := []struct {
		mode string
		want job.Status
	}{
		{"ok", job.Success()},
		{"error", job.Failed(job.FailureError)},
		{"panic", job.Failed(job.FailureCrash)},
		{"hang", job.Failed(job.FailureTimeout)},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			exec, reg, def, st := setup(t, job.WithTimeout(20*time.Millisecond))
			env, res := run(t, exec, reg, def, tt.mode)

			if res.Status != tt.want {
				t.Errorf("Status = %v, want %v", res.Status, tt.want)
			}
			if res.Retry {
				t.Error("no retries configured, Retry must be false")
			}
			if (res.Err == nil) != (tt.mode == "ok") {
				t.Errorf("Err = %v", res.Err)
			}

			rec, err := st.GetStatus(context.Background(), env.ID)
			if err != nil {
				t.Fatalf("GetStatus: %v", err)
			}
			if rec.Status != tt.want {
				t.Errorf("stored status = %v, want %v", rec.Status, tt.want)
			}
		})
	}
}

func TestExecutor_DownstreamDeadlineIsError(t *testing.T) {
	for _, timeout := range []time.Duration{0, time.Minute} {
		t.Run(timeout.String(), func(t *testing.T) {
			exec, reg, def, _ := setup(t, job.WithTimeout(timeout))
			_, res := run(t, exec, reg, def, "downstream-deadline")
			if res.Status != job.Failed(job.FailureError) {
				t.Errorf("Status = %v, want failed:error", res.Status)
			}
			if !errors.Is(res.Err, context.DeadlineExceeded) {
				t.Errorf("Err = %v, want wrapped DeadlineExceeded", res.Err)
			}
		})
	}
}

func TestExecutor_RetryBudget(t *testing.T) {
	exec, reg, def, st := setup(t, job.WithRetries(2))
	env, res := run(t, exec, reg, def, "error")

	if !res.Retry || res.Next == nil {
		t.Fatalf("expected a retry decision, got %+v", res)
	}
	if res.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", res.RetryAfter)
	}
	if res.Next.Attempt != 1 || res.Next.ID != env.ID {
		t.Errorf("Next = %+v", res.Next)
	}
	rec, _ := st.GetStatus(context.Background(), env.ID)
	if !rec.Retry || rec.Status != job.Failed(job.FailureError) {
		t.Errorf("record = %+v", rec)
	}

	res, err := exec.Execute(context.Background(), res.Next)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Retry {
		t.Fatal("attempt 1 of 2 retries should retry")
	}

	res, err = exec.Execute(context.Background(), res.Next)
	if err != nil {
		t.Fatal(err)
	}
	if res.Retry || res.Next != nil {
		t.Fatalf("budget exhausted, got %+v", res)
	}
	rec, _ = st.GetStatus(context.Background(), env.ID)
	if rec.Retry || rec.Attempt != 2 {
		t.Errorf("final record = %+v", rec)
	}
}

func TestExecutor_SuccessDoesNotRetry(t *testing.T) {
	exec, reg, def, _ := setup(t, job.WithRetries(5))
	_, res := run(t, exec, reg, def, "ok")
	if res.Retry || res.Status != job.Success() {
		t.Fatalf("result = %+v", res)
	}
}

func TestExecutor_UnknownJob(t *testing.T) {
	exec, _, _, _ := setup(t)
	res, err := exec.Execute(context.Background(), &job.Envelope{ID: "job_x", Name: "ghost", Retries: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.Err, batch.ErrUnknownJob) {
		t.Errorf("Err = %v, want ErrUnknownJob", res.Err)
	}
	if res.Retry {
		t.Error("an unregistered job is never retried")
	}
	if res.Status != job.Failed(job.FailureError) {
		t.Errorf("Status = %v", res.Status)
	}
}

func TestExecutor_RecordsStartedBeforeHandler(t *testing.T) {
	st := memory.New()
	reg := job.NewRegistry()

	var seen job.Status
	var envID string
	def := job.NewDefinition(func(ctx context.Context, _ task) error {
		env, ok := middleware.EnvelopeFrom(ctx)
		if !ok {
			return errors.New("no envelope in context")
		}
		envID = env.ID
		rec, err := st.GetStatus(ctx, env.ID)
		if err != nil {
			return err
		}
		seen = rec.Status
		return nil
	})
	job.MustRegister(reg, def)
	exec := worker.NewExecutor(reg, worker.WithStore(st), worker.WithLogger(quietLogger()))

	env, _ := job.Enqueue(reg, def, task{})
	res, err := exec.Execute(context.Background(), env)
	if err != nil || res.Err != nil {
		t.Fatalf("Execute: (%v, %v)", err, res.Err)
	}
	if envID != env.ID {
		t.Errorf("handler saw envelope %q, want %q", envID, env.ID)
	}
	if seen != job.Started() {
		t.Errorf("status during handler = %v, want started", seen)
	}
}

func TestExecutor_StoreFailure(t *testing.T) {
	st := memory.New()
	_ = st.Close()
	reg := job.NewRegistry()
	def := job.NewDefinition(func(context.Context, task) error { return nil })
	job.MustRegister(reg, def)
	exec := worker.NewExecutor(reg, worker.WithStore(st), worker.WithLogger(quietLogger()))

	env, _ := job.Enqueue(reg, def, task{})
	if _, err := exec.Execute(context.Background(), env); !errors.Is(err, batch.ErrStoreClosed) {
		t.Fatalf("err = %v, want ErrStoreClosed", err)
	}
}

func TestExecutor_ExtraMiddlewareSeesClassifiedError(t *testing.T) {
	reg := job.NewRegistry()
	def := job.NewDefinition(func(context.Context, task) error { panic("boom") })
	job.MustRegister(reg, def)

	var observed job.Status
	spy := func(ctx context.Context, _ *job.Envelope, next middleware.Handler) error {
		err := next(ctx)
		observed = job.Outcome(err)
		return err
	}
	exec := worker.NewExecutor(reg, worker.WithMiddleware(spy), worker.WithLogger(quietLogger()))

	env, _ := job.Enqueue(reg, def, task{})
	if _, err := exec.Execute(context.Background(), env); err != nil {
		t.Fatal(err)
	}
	if observed != job.Failed(job.FailureCrash) {
		t.Errorf("middleware observed %v, want failed:crash", observed)
	}
	if exec.ID().Prefix() != "exec" {
		t.Errorf("executor ID prefix = %q", exec.ID().Prefix())
	}
}
