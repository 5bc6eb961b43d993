// Package gen emits Go bindings for a validated topology.
//
// Every exchange and queue becomes a function returning its descriptor by
// value, named after the declaration with an Exchange or Queue prefix:
//
//	exchange "emails"      -> ExchangeEmails() topology.Exchange
//	queue    "email-queue" -> QueueEmailQueue() topology.Queue
//
// plus a Topology() accessor for the whole set. Job definitions pass these
// descriptors to job.WithExchange or job.WithQueue, so a reference to an
// undeclared exchange or queue is a build failure rather than a run-time
// one. Output is a pure function of the topology and options.
package gen
