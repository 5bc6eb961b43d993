// Package codec serializes job payloads and envelopes.
//
// Two codecs ship with the module: [JSON] (the default, readable in
// broker consoles) and [Msgpack] (compact). A codec's [Codec.Name] travels
// inside every envelope so the consumer decodes the payload with the same
// codec the producer used.
package codec

import (
	"fmt"

	"github.com/xraph/batch"
)

// Codec defines the serialization contract for payloads and envelopes.
type Codec interface {
	// Marshal serializes v to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes data into the value pointed to by v.
	Unmarshal(data []byte, v any) error

	// Name returns the codec identifier (e.g., "json", "msgpack").
	Name() string
}

// Codec names.
const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"
)

// JSON and Msgpack are the shared codec instances. Both are stateless.
var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// Get returns a codec by name. The empty name selects JSON.
func Get(name string) (Codec, error) {
	switch name {
	case NameJSON, "":
		return JSON, nil
	case NameMsgpack:
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("%w: %q", batch.ErrUnknownCodec, name)
	}
}
