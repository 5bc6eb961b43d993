// Package batch provides the client-side layer for defining and routing
// asynchronous jobs that run on workers behind a message broker.
//
// It does not talk to a broker. It offers two things: a compiler for a small
// declarative language describing broker topology (exchanges and queues),
// and the contract every job type satisfies (identity, routing, priority,
// retry budget, timeout, execution and terminal status).
//
// # Quick Start
//
// Describe the topology once:
//
//	exchanges {
//	    emails { kind = topic }
//	}
//	queues {
//	    "email-queue" { bound_exchange = emails, routing_key = "emails.*" }
//	}
//
// Generate Go bindings with batchgen (usually through go:generate):
//
//	//go:generate go run github.com/xraph/batch/cmd/batchgen -pkg topo -o topology_gen.go emails.topo
//
// Bind a job type to the generated descriptors:
//
//	var SendEmail = job.NewDefinition(
//	    func(ctx context.Context, p SendConfirmationEmail) error { ... },
//	    job.WithExchange(topo.ExchangeEmails(), "emails.send"),
//	)
//
// Referencing an exchange that was never declared fails to compile, since
// the generated accessor does not exist.
//
// # Architecture
//
// The topology package parses, validates and reports diagnostics; the gen
// package turns a validated topology into source. The job package holds the
// lifecycle vocabulary (Priority, Status, Failure) consumed by whatever
// runtime executes jobs. The worker, middleware, codec and store packages
// are thin supporting pieces for such a runtime.
package batch
