package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/batch"
	"github.com/xraph/batch/codec"
	"github.com/xraph/batch/job"
	"github.com/xraph/batch/topology"
)

type emailPayload struct {
	To      string `json:"to" msgpack:"to"`
	Subject string `json:"subject" msgpack:"subject"`
}

func TestRegistry_RegisterAndHandle(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON, codec.Msgpack} {
		t.Run(c.Name(), func(t *testing.T) {
			r := job.NewRegistry(job.WithCodec(c))

			var got emailPayload
			def := job.NewDefinition(func(_ context.Context, p emailPayload) error {
				got = p
				return nil
			}, job.WithName("send-email"))

			if err := job.Register(r, def); err != nil {
				t.Fatalf("Register: %v", err)
			}

			env, err := job.Enqueue(r, def, emailPayload{To: "alice@example.com", Subject: "Hello"})
			if err != nil {
				t.Fatalf("Enqueue: %v", err)
			}
			if env.Codec != c.Name() {
				t.Errorf("Codec = %q, want %q", env.Codec, c.Name())
			}

			if err := r.Handle(context.Background(), env); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if got.To != "alice@example.com" {
				t.Errorf("To = %q, want %q", got.To, "alice@example.com")
			}
			if got.Subject != "Hello" {
				t.Errorf("Subject = %q, want %q", got.Subject, "Hello")
			}
		})
	}
}

func TestRegistry_HandleUnknown(t *testing.T) {
	r := job.NewRegistry()
	err := r.Handle(context.Background(), &job.Envelope{Name: "nonexistent"})
	if !errors.Is(err, batch.ErrUnknownJob) {
		t.Fatalf("err = %v, want ErrUnknownJob", err)
	}
	if _, ok := r.Get("nonexistent"); ok {
		t.Fatal("expected no handler for unregistered job")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := job.NewRegistry()

	for _, name := range []string{"job-c", "job-a", "job-b"} {
		job.MustRegister(r, job.NewDefinition(func(_ context.Context, _ struct{}) error { return nil }, job.WithName(name)))
	}

	names := r.Names()
	expected := []string{"job-a", "job-b", "job-c"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want)
		}
	}
}

func TestRegistry_InvalidPayload(t *testing.T) {
	r := job.NewRegistry()
	job.MustRegister(r, job.NewDefinition(func(_ context.Context, _ emailPayload) error {
		t.Fatal("handler should not be called with invalid JSON")
		return nil
	}, job.WithName("typed-job")))

	err := r.Handle(context.Background(), &job.Envelope{
		Name:    "typed-job",
		Codec:   codec.NameJSON,
		Payload: []byte(`{invalid json`),
	})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestRegistry_UnknownCodec(t *testing.T) {
	r := job.NewRegistry()
	job.MustRegister(r, job.NewDefinition(func(_ context.Context, _ struct{}) error { return nil }, job.WithName("j")))

	err := r.Handle(context.Background(), &job.Envelope{Name: "j", Codec: "xml"})
	if !errors.Is(err, batch.ErrUnknownCodec) {
		t.Fatalf("err = %v, want ErrUnknownCodec", err)
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := batch.DefaultConfig()
	cfg.Codec = codec.NameMsgpack

	r, err := job.NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}
	def := job.NewDefinition(func(_ context.Context, _ emailPayload) error { return nil })
	job.MustRegister(r, def)
	env, err := job.Enqueue(r, def, emailPayload{To: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if env.Codec != codec.NameMsgpack {
		t.Errorf("Codec = %q, want msgpack", env.Codec)
	}

	cfg.Codec = "xml"
	if _, err := job.NewRegistryFromConfig(cfg); !errors.Is(err, batch.ErrUnknownCodec) {
		t.Errorf("err = %v, want ErrUnknownCodec", err)
	}
}

func TestRegistry_EmptyPayload(t *testing.T) {
	r := job.NewRegistry()
	called := false
	job.MustRegister(r, job.NewDefinition(func(_ context.Context, _ struct{}) error {
		called = true
		return nil
	}, job.WithName("no-payload")))

	if err := r.Handle(context.Background(), &job.Envelope{Name: "no-payload"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called with empty payload")
	}
}

func TestRegistry_HandlerError(t *testing.T) {
	r := job.NewRegistry()
	want := errors.New("handler failed")
	job.MustRegister(r, job.NewDefinition(func(_ context.Context, _ struct{}) error {
		return want
	}, job.WithName("failing")))

	err := r.Handle(context.Background(), &job.Envelope{Name: "failing"})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := job.NewRegistry()

	first := job.NewDefinition(func(_ context.Context, _ struct{}) error { return errors.New("old") }, job.WithName("dup"))
	second := job.NewDefinition(func(_ context.Context, _ struct{}) error { return errors.New("new") }, job.WithName("dup"))

	if err := job.Register(r, first); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := job.Register(r, second); !errors.Is(err, batch.ErrJobAlreadyExists) {
		t.Fatalf("second Register err = %v, want ErrJobAlreadyExists", err)
	}

	err := r.Handle(context.Background(), &job.Envelope{Name: "dup"})
	if err == nil || err.Error() != "old" {
		t.Fatalf("expected the first handler to stay registered, got %v", err)
	}
}

func TestRegistry_EnqueueUnregistered(t *testing.T) {
	r := job.NewRegistry()
	def := job.NewDefinition(func(_ context.Context, _ struct{}) error { return nil }, job.WithName("loose"))
	if _, err := job.Enqueue(r, def, struct{}{}); !errors.Is(err, batch.ErrUnknownJob) {
		t.Fatalf("err = %v, want ErrUnknownJob", err)
	}
}

func TestRegistry_ChecksRoutesAgainstTopology(t *testing.T) {
	emails := topology.Exchange{Name: "emails", Kind: topology.KindTopic, Durable: true}
	queue := topology.Queue{Name: "email-queue", Exchange: "emails", RoutingKey: "emails.*", Durable: true}
	topo := topology.MustNew([]topology.Exchange{emails}, []topology.Queue{queue})

	r := job.NewRegistry(job.WithTopology(topo))
	noop := func(_ context.Context, _ struct{}) error { return nil }

	tests := []struct {
		name string
		opts []job.Option
		want error
	}{
		{"routed", []job.Option{job.WithExchange(emails, "emails.send")}, nil},
		{"unroutable", []job.Option{job.WithExchange(emails, "sms.send")}, batch.ErrUnroutable},
		{"missing key", []job.Option{job.WithExchange(emails, "")}, batch.ErrRoutingKey},
		{"unknown exchange", []job.Option{job.WithExchange(topology.Exchange{Name: "ghost"}, "x")}, batch.ErrUnknownExchange},
		{"default exchange by queue", []job.Option{job.WithQueue(topology.Queue{Name: "email-queue"})}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]job.Option{job.WithName(tt.name)}, tt.opts...)
			err := job.Register(r, job.NewDefinition(noop, opts...))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Register: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
