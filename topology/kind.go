package topology

import (
	"fmt"

	"github.com/xraph/batch"
)

// Kind is the routing behaviour of an exchange.
type Kind uint8

const (
	KindDirect Kind = iota
	KindTopic
	KindFanout
	KindHeaders
)

var kindNames = [...]string{
	KindDirect:  "direct",
	KindTopic:   "topic",
	KindFanout:  "fanout",
	KindHeaders: "headers",
}

// ParseKind parses the lowercase kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown exchange kind %q", batch.ErrInvalidValue, s)
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// GoName returns the exported constant name of k in this package, as used
// by generated code.
func (k Kind) GoName() string {
	switch k {
	case KindDirect:
		return "KindDirect"
	case KindTopic:
		return "KindTopic"
	case KindFanout:
		return "KindFanout"
	case KindHeaders:
		return "KindHeaders"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// RequiresRoutingKey reports whether queues bound to an exchange of this
// kind must declare a routing key. Fanout and headers exchanges ignore keys.
func (k Kind) RequiresRoutingKey() bool {
	return k == KindDirect || k == KindTopic
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: unknown exchange kind %d", batch.ErrInvalidValue, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
