package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/batch/job"
)

// tracerName is the instrumentation scope name for batch tracing.
const tracerName = "github.com/xraph/batch"

// Tracing returns middleware that wraps job execution in an OpenTelemetry span.
// If no TracerProvider is configured globally, the default noop tracer is used
// and this middleware becomes a pass-through with zero overhead.
//
// Span attributes include: batch.job.id, batch.job.name, batch.exchange,
// batch.routing_key, batch.priority, batch.attempt.
// On error, the span status is set to codes.Error with the error message and
// the batch.status attribute carries the classified outcome.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, env *job.Envelope, next Handler) error {
		ctx, span := tracer.Start(ctx, "batch.job.execute",
			trace.WithAttributes(
				attribute.String("batch.job.id", env.ID),
				attribute.String("batch.job.name", env.Name),
				attribute.String("batch.exchange", env.Exchange),
				attribute.String("batch.routing_key", env.RoutingKey),
				attribute.String("batch.priority", env.Priority.String()),
				attribute.Int("batch.attempt", int(env.Attempt)),
			),
			trace.WithSpanKind(trace.SpanKindConsumer),
		)
		defer span.End()

		err := next(ctx)
		span.SetAttributes(attribute.String("batch.status", job.Outcome(err).String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
