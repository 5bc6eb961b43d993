package job

import (
	"context"
	"reflect"
)

// Definition is a typed job definition: a descriptor plus the handler that
// processes payloads of type T. It implements Job through the embedded
// Descriptor.
type Definition[T any] struct {
	Descriptor

	// Handler processes one decoded payload.
	Handler func(ctx context.Context, payload T) error
}

// NewDefinition creates a typed job definition. Without WithName the name
// is the identifier of T.
func NewDefinition[T any](handler func(ctx context.Context, payload T) error, opts ...Option) *Definition[T] {
	d := NewDescriptor(opts...)
	if d.name == "" {
		d.name = typeName[T]()
	}
	return &Definition[T]{
		Descriptor: d,
		Handler:    handler,
	}
}

// Performer is the execution capability of a job payload. C is the
// context value the runtime supplies, such as a mailer or a database
// handle.
type Performer[C any] interface {
	Perform(ctx context.Context, c C) error
}

// Perform builds a definition whose handler calls the payload's Perform
// method with c:
//
//	def := job.Perform[SendConfirmationEmail](mailer, job.WithQueue(topo.QueueEmailQueue()))
func Perform[T Performer[C], C any](c C, opts ...Option) *Definition[T] {
	return NewDefinition(func(ctx context.Context, payload T) error {
		return payload.Perform(ctx, c)
	}, opts...)
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}
