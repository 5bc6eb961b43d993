// Package job defines the job lifecycle contract: the six queries every
// job type answers, its priority, and the status and failure vocabulary
// used to report outcomes.
//
// # Defining a Job
//
// A job type is a payload struct plus a [Definition]. Options override the
// defaults listed by [DefaultOptions]; exchanges and queues are passed as
// generated topology descriptors so that routing to an undeclared entry
// does not build:
//
//	var SendEmail = job.NewDefinition(
//	    func(ctx context.Context, e SendConfirmationEmail) error {
//	        return mailer.Send(ctx, e.To)
//	    },
//	    job.WithExchange(topo.ExchangeEmails(), "emails.send"),
//	    job.WithRetries(3),
//	)
//
// Payload types that implement [Performer] can use [Perform] instead.
//
// # Status
//
// [Status] is a closed sum type with the transitions
//
//	pending → started → success
//	pending → started → failed(error | timeout | crash)
//
// [Classify] and [Outcome] map a handler's returned error onto exactly one
// [Failure], so result handling can switch over every case.
//
// # Registry
//
// [Registry] maps job names to type-erased [HandlerFunc] values that decode
// an [Envelope] payload with the codec it names. Register definitions at
// startup via [Register]; attach a topology with [WithTopology] to reject
// routes that reach no queue.
package job
