package job

import (
	"fmt"
	"time"

	"github.com/xraph/batch/codec"
	"github.com/xraph/batch/id"
)

// Envelope is one job instance in transit: an encoded payload plus the
// descriptor metadata of its job type. Consumers treat it as opaque until
// the registry decodes the payload.
type Envelope struct {
	ID         string        `json:"id" msgpack:"id"`
	Name       string        `json:"name" msgpack:"name"`
	Exchange   string        `json:"exchange" msgpack:"exchange"`
	RoutingKey string        `json:"routing_key" msgpack:"routing_key"`
	Priority   Priority      `json:"priority" msgpack:"priority"`
	Retries    uint32        `json:"retries" msgpack:"retries"`
	Timeout    time.Duration `json:"timeout,omitempty" msgpack:"timeout,omitempty"`
	Attempt    uint32        `json:"attempt" msgpack:"attempt"`
	Codec      string        `json:"codec" msgpack:"codec"`
	Payload    []byte        `json:"payload" msgpack:"payload"`
	CreatedAt  time.Time     `json:"created_at" msgpack:"created_at"`
}

// NewEnvelope encodes payload with c and stamps it with def's metadata and
// a fresh job ID. Attempt starts at zero.
func NewEnvelope[T any](def *Definition[T], payload T, c codec.Codec) (*Envelope, error) {
	data, err := c.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload for job %q: %w", def.Name(), err)
	}
	return &Envelope{
		ID:         id.NewJobID().String(),
		Name:       def.Name(),
		Exchange:   def.Exchange(),
		RoutingKey: def.RoutingKey(),
		Priority:   def.Priority(),
		Retries:    def.Retries(),
		Timeout:    def.Timeout(),
		Codec:      c.Name(),
		Payload:    data,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// CanRetry reports whether another attempt is allowed after the current
// one fails.
func (e *Envelope) CanRetry() bool {
	return e.Attempt < e.Retries
}

// Redeliver returns a copy of e for the next attempt.
func (e *Envelope) Redeliver() *Envelope {
	cp := *e
	cp.Attempt++
	cp.Payload = append([]byte(nil), e.Payload...)
	return &cp
}

// Encode serializes the whole envelope with c.
func (e *Envelope) Encode(c codec.Codec) ([]byte, error) {
	return c.Marshal(e)
}

// DecodeEnvelope is the inverse of Envelope.Encode.
func DecodeEnvelope(data []byte, c codec.Codec) (*Envelope, error) {
	var e Envelope
	if err := c.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &e, nil
}
