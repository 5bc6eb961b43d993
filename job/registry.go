package job

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/batch"
	"github.com/xraph/batch/codec"
	"github.com/xraph/batch/topology"
)

// HandlerFunc is a type-erased job handler. The typed Definition[T] is
// converted to a HandlerFunc at registration time by closing over payload
// decoding and the typed handler.
type HandlerFunc func(ctx context.Context, env *Envelope) error

type entry struct {
	desc    Descriptor
	handler HandlerFunc
}

// Registry maps job names to descriptors and type-erased handlers.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]entry
	topology *topology.Topology
	codec    codec.Codec
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTopology makes Register reject definitions whose exchange and
// routing key do not route to a queue of t.
func WithTopology(t *topology.Topology) RegistryOption {
	return func(r *Registry) {
		r.topology = t
	}
}

// WithCodec sets the codec used by Enqueue. The default is codec.JSON.
func WithCodec(c codec.Codec) RegistryOption {
	return func(r *Registry) {
		r.codec = c
	}
}

// NewRegistry creates an empty job registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]entry),
		codec:   codec.JSON,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRegistryFromConfig creates a registry that enqueues with the codec
// named by c.Codec. Explicit options are applied after the config.
func NewRegistryFromConfig(c batch.Config, opts ...RegistryOption) (*Registry, error) {
	cd, err := codec.Get(c.Codec)
	if err != nil {
		return nil, err
	}
	return NewRegistry(append([]RegistryOption{WithCodec(cd)}, opts...)...), nil
}

// Register adds a typed job definition. The handler is wrapped in a
// closure that decodes the envelope payload into T with the codec named in
// the envelope.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func Register[T any](r *Registry, def *Definition[T]) error {
	if r.topology != nil {
		if err := r.topology.CheckRoute(def.Exchange(), def.RoutingKey()); err != nil {
			return fmt.Errorf("register job %q: %w", def.Name(), err)
		}
	}

	handler := func(ctx context.Context, env *Envelope) error {
		c, err := codec.Get(env.Codec)
		if err != nil {
			return fmt.Errorf("job %q: %w", def.Name(), err)
		}
		var payload T
		if len(env.Payload) > 0 {
			if err := c.Unmarshal(env.Payload, &payload); err != nil {
				return fmt.Errorf("unmarshal payload for job %q: %w", def.Name(), err)
			}
		}
		return def.Handler(ctx, payload)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[def.Name()]; exists {
		return fmt.Errorf("%w: %q", batch.ErrJobAlreadyExists, def.Name())
	}
	r.entries[def.Name()] = entry{desc: def.Descriptor, handler: handler}
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](r *Registry, def *Definition[T]) {
	if err := Register(r, def); err != nil {
		panic(err)
	}
}

// Enqueue wraps payload in an envelope encoded with the registry codec.
// The definition must be registered.
func Enqueue[T any](r *Registry, def *Definition[T], payload T) (*Envelope, error) {
	if _, ok := r.Descriptor(def.Name()); !ok {
		return nil, fmt.Errorf("%w: %q", batch.ErrUnknownJob, def.Name())
	}
	return NewEnvelope(def, payload, r.codec)
}

// Get returns the handler for the given job name.
// Returns false if no handler is registered.
func (r *Registry) Get(name string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.handler, ok
}

// Descriptor returns the metadata registered under name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.desc, ok
}

// Names returns all registered job names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle decodes env and runs the handler registered for env.Name.
func (r *Registry) Handle(ctx context.Context, env *Envelope) error {
	h, ok := r.Get(env.Name)
	if !ok {
		return fmt.Errorf("%w: %q", batch.ErrUnknownJob, env.Name)
	}
	return h(ctx, env)
}
