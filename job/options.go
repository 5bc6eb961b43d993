package job

import (
	"time"

	"github.com/xraph/batch/topology"
)

// Options lists every descriptor field. DefaultOptions documents the value
// each one takes when a definition does not override it.
type Options struct {
	// Name identifies the job type. Empty means derive it from the payload
	// type's identifier.
	Name string

	// Exchange is the exchange the job is published to.
	Exchange string

	// RoutingKey is the key the job is published with.
	RoutingKey string

	// Retries is the number of additional attempts after a failure.
	Retries uint32

	// Timeout bounds one attempt. Zero means unbounded.
	Timeout time.Duration

	// Priority is the scheduling preference.
	Priority Priority
}

// DefaultOptions returns the documented defaults: the default exchange with
// no routing key, no retries, no timeout, and Normal priority.
func DefaultOptions() Options {
	return Options{
		Exchange:   topology.DefaultExchangeName,
		RoutingKey: "",
		Retries:    0,
		Timeout:    0,
		Priority:   Normal,
	}
}

// Option is a functional option for configuring a job definition.
type Option func(*Options)

// WithName overrides the name derived from the payload type.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithExchange publishes the job to ex with routing key key. Taking the
// generated descriptor rather than a name means an undeclared exchange is
// a build error.
func WithExchange(ex topology.Exchange, key string) Option {
	return func(o *Options) {
		o.Exchange = ex.Name
		o.RoutingKey = key
	}
}

// WithQueue publishes the job so that it reaches q: to q's exchange with
// q's binding key.
func WithQueue(q topology.Queue) Option {
	return func(o *Options) {
		o.Exchange = q.Exchange
		o.RoutingKey = q.BindingKey()
	}
}

// WithRetries sets the number of additional attempts after a failure.
func WithRetries(n uint32) Option {
	return func(o *Options) {
		o.Retries = n
	}
}

// WithTimeout sets the maximum duration of one attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithPriority sets the scheduling preference.
func WithPriority(p Priority) Option {
	return func(o *Options) {
		o.Priority = p
	}
}
