// Package topology compiles broker topology declarations into validated,
// immutable descriptors.
//
// # Declarations
//
// A declaration source holds "exchanges" and "queues" blocks. Each block
// contains named entries with "key = value" attributes separated by
// newlines or commas:
//
//	# Exchanges every service publishes to.
//	exchanges {
//	    emails { kind = topic }
//	    audit  { kind = fanout, durable = false }
//	}
//
//	queues {
//	    "email-queue" {
//	        bound_exchange = emails
//	        routing_key    = "emails.*"
//	    }
//	    audit-log { bound_exchange = audit }   // parse error: "-" is not an identifier character
//	}
//
// Exchange attributes: kind (direct, topic, fanout or headers; required),
// durable (default true), auto_delete (default false), internal (default
// false).
//
// Queue attributes: bound_exchange (default: the implicit default
// exchange), routing_key (required for direct and topic exchanges,
// rejected otherwise), durable (default true), auto_delete (default
// false), exclusive (default false).
//
// # Phases
//
// [Parse] checks syntax and literal types and produces a [File]. [Validate]
// checks names, attributes, references and routing-key rules across a set
// of files and produces a [Topology]. Both accumulate every problem into a
// [Report] instead of stopping at the first one. [Compile] runs both.
//
// The gen package turns a [Topology] into Go source so job types can refer
// to exchanges and queues by generated identifiers.
package topology
