package job

import "time"

// Job is the contract every job type satisfies. All six queries are pure:
// they depend only on the job type, never on an instance, and return the
// same values for the life of the program.
type Job interface {
	// Name uniquely identifies the job type.
	Name() string
	// Exchange is the declared exchange the job is published to. Empty
	// selects the broker's default exchange.
	Exchange() string
	// RoutingKey is compatible with the exchange's kind.
	RoutingKey() string
	// Retries is the number of additional attempts after a failure.
	Retries() uint32
	// Timeout bounds one attempt; zero means unbounded.
	Timeout() time.Duration
	// Priority is the scheduling preference.
	Priority() Priority
}

// Descriptor is the immutable metadata of one job type.
type Descriptor struct {
	name       string
	exchange   string
	routingKey string
	retries    uint32
	timeout    time.Duration
	priority   Priority
}

var _ Job = Descriptor{}

// NewDescriptor applies opts over DefaultOptions and freezes the result,
// so fields no option sets keep their documented defaults.
func NewDescriptor(opts ...Option) Descriptor {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return Descriptor{
		name:       o.Name,
		exchange:   o.Exchange,
		routingKey: o.RoutingKey,
		retries:    o.Retries,
		timeout:    o.Timeout,
		priority:   o.Priority,
	}
}

// Describe snapshots any Job into a Descriptor.
func Describe(j Job) Descriptor {
	if d, ok := j.(Descriptor); ok {
		return d
	}
	return Descriptor{
		name:       j.Name(),
		exchange:   j.Exchange(),
		routingKey: j.RoutingKey(),
		retries:    j.Retries(),
		timeout:    j.Timeout(),
		priority:   j.Priority(),
	}
}

func (d Descriptor) Name() string           { return d.name }
func (d Descriptor) Exchange() string       { return d.exchange }
func (d Descriptor) RoutingKey() string     { return d.routingKey }
func (d Descriptor) Retries() uint32        { return d.retries }
func (d Descriptor) Timeout() time.Duration { return d.timeout }
func (d Descriptor) Priority() Priority     { return d.priority }
