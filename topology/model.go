package topology

import (
	"fmt"
	"strings"

	"github.com/xraph/batch"
)

// DefaultExchangeName names the broker's implicit default exchange. It is a
// direct exchange that routes a message to the queue named by its routing
// key, and every queue is bound to it.
const DefaultExchangeName = ""

// reservedPrefix marks broker-owned exchange names that cannot be declared.
const reservedPrefix = "amq."

// Exchange is the resolved, default-filled descriptor of a declared
// exchange.
type Exchange struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Durable    bool   `json:"durable"`
	AutoDelete bool   `json:"auto_delete"`
	Internal   bool   `json:"internal"`
}

// DefaultExchange returns the descriptor of the implicit default exchange.
func DefaultExchange() Exchange {
	return Exchange{Name: DefaultExchangeName, Kind: KindDirect, Durable: true}
}

// IsDefault reports whether e is the implicit default exchange.
func (e Exchange) IsDefault() bool { return e.Name == DefaultExchangeName }

// Queue is the resolved, default-filled descriptor of a declared queue.
type Queue struct {
	Name string `json:"name"`
	// Exchange is the bound exchange; empty for the default exchange.
	Exchange   string `json:"exchange"`
	RoutingKey string `json:"routing_key,omitempty"`
	Durable    bool   `json:"durable"`
	AutoDelete bool   `json:"auto_delete"`
	Exclusive  bool   `json:"exclusive"`
}

// BindingKey is the key the queue is bound with. Queues on the default
// exchange are bound by their own name.
func (q Queue) BindingKey() string {
	if q.Exchange == DefaultExchangeName {
		return q.Name
	}
	return q.RoutingKey
}

// Topology is an ordered, immutable set of exchange and queue descriptors.
// Accessors return copies, so a Topology may be shared between goroutines
// without synchronization.
type Topology struct {
	exchanges   []Exchange
	queues      []Queue
	exchangeIdx map[string]int
	queueIdx    map[string]int
}

// New builds a Topology from descriptors, enforcing the same rules the
// validator applies to declarations. Order is preserved.
func New(exchanges []Exchange, queues []Queue) (*Topology, error) {
	t := &Topology{
		exchanges:   append([]Exchange(nil), exchanges...),
		queues:      append([]Queue(nil), queues...),
		exchangeIdx: make(map[string]int, len(exchanges)),
		queueIdx:    make(map[string]int, len(queues)),
	}

	for i, e := range t.exchanges {
		if msg := checkExchangeName(e.Name); msg != "" {
			return nil, fmt.Errorf("%w: %s", batch.ErrInvalidValue, msg)
		}
		if _, dup := t.exchangeIdx[e.Name]; dup {
			return nil, fmt.Errorf("%w: exchange %q", batch.ErrDuplicateName, e.Name)
		}
		if _, err := e.Kind.MarshalText(); err != nil {
			return nil, err
		}
		t.exchangeIdx[e.Name] = i
	}

	for i, q := range t.queues {
		if q.Name == "" {
			return nil, fmt.Errorf("%w: queue name is empty", batch.ErrInvalidValue)
		}
		if _, dup := t.queueIdx[q.Name]; dup {
			return nil, fmt.Errorf("%w: queue %q", batch.ErrDuplicateName, q.Name)
		}
		ex, ok := t.Exchange(q.Exchange)
		if !ok {
			return nil, fmt.Errorf("%w: queue %q is bound to %q", batch.ErrUnknownExchange, q.Name, q.Exchange)
		}
		if msg := checkBindingKey(ex, q.RoutingKey, q.RoutingKey != ""); msg != "" {
			return nil, fmt.Errorf("%w: queue %q: %s", batch.ErrRoutingKey, q.Name, msg)
		}
		t.queueIdx[q.Name] = i
	}
	return t, nil
}

// MustNew is like New but panics on error. Generated code uses it for
// topologies that already passed validation.
func MustNew(exchanges []Exchange, queues []Queue) *Topology {
	t, err := New(exchanges, queues)
	if err != nil {
		panic(fmt.Sprintf("topology: %v", err))
	}
	return t
}

// Exchanges returns the declared exchanges in declaration order. The
// implicit default exchange is not included.
func (t *Topology) Exchanges() []Exchange {
	return append([]Exchange(nil), t.exchanges...)
}

// Queues returns the declared queues in declaration order.
func (t *Topology) Queues() []Queue {
	return append([]Queue(nil), t.queues...)
}

// Exchange looks up an exchange by name. The empty name resolves to the
// implicit default exchange.
func (t *Topology) Exchange(name string) (Exchange, bool) {
	if name == DefaultExchangeName {
		return DefaultExchange(), true
	}
	i, ok := t.exchangeIdx[name]
	if !ok {
		return Exchange{}, false
	}
	return t.exchanges[i], true
}

// Queue looks up a queue by name.
func (t *Topology) Queue(name string) (Queue, bool) {
	i, ok := t.queueIdx[name]
	if !ok {
		return Queue{}, false
	}
	return t.queues[i], true
}

// Bindings returns the queues bound to the named exchange in declaration
// order.
func (t *Topology) Bindings(exchange string) []Queue {
	var out []Queue
	for _, q := range t.queues {
		if q.Exchange == exchange {
			out = append(out, q)
		}
	}
	return out
}

// Route returns the queues that receive a message published to exchange
// with routing key key. Headers exchanges match on message headers, which
// are not part of a job descriptor, so every bound queue is returned.
func (t *Topology) Route(exchange, key string) []Queue {
	ex, ok := t.Exchange(exchange)
	if !ok {
		return nil
	}
	var out []Queue
	for _, q := range t.queues {
		if ex.IsDefault() {
			// Every queue is reachable through the default exchange by name.
			if q.Name == key {
				out = append(out, q)
			}
			continue
		}
		if q.Exchange != ex.Name {
			continue
		}
		switch ex.Kind {
		case KindDirect:
			if q.RoutingKey == key {
				out = append(out, q)
			}
		case KindTopic:
			if matchTopic(q.RoutingKey, key) {
				out = append(out, q)
			}
		default:
			out = append(out, q)
		}
	}
	return out
}

// CheckRoute verifies that a job publishing to exchange with routing key
// key is compatible with the exchange kind and reaches at least one queue.
func (t *Topology) CheckRoute(exchange, key string) error {
	ex, ok := t.Exchange(exchange)
	if !ok {
		return fmt.Errorf("%w: %q", batch.ErrUnknownExchange, exchange)
	}
	switch {
	case ex.Kind.RequiresRoutingKey() && key == "":
		return fmt.Errorf("%w: %s exchange %q needs a routing key", batch.ErrRoutingKey, ex.Kind, ex.Name)
	case !ex.Kind.RequiresRoutingKey() && key != "":
		return fmt.Errorf("%w: %s exchange %q ignores routing keys, got %q", batch.ErrRoutingKey, ex.Kind, ex.Name, key)
	case ex.Kind == KindTopic && strings.ContainsAny(key, "*#"):
		return fmt.Errorf("%w: published key %q on topic exchange %q contains a wildcard", batch.ErrRoutingKey, key, ex.Name)
	}
	if len(t.Route(exchange, key)) == 0 {
		return fmt.Errorf("%w: no queue receives key %q on exchange %q", batch.ErrUnroutable, key, exchange)
	}
	return nil
}

// checkExchangeName describes why name cannot be declared, or returns "".
func checkExchangeName(name string) string {
	switch {
	case name == DefaultExchangeName:
		return "exchange name is empty; the default exchange is implicit and cannot be declared"
	case strings.HasPrefix(name, reservedPrefix):
		return fmt.Sprintf("exchange name %q uses the reserved %q prefix", name, reservedPrefix)
	}
	return ""
}

// checkBindingKey describes why a queue bound to ex with the given routing
// key (present tells whether one was declared) is invalid, or returns "".
func checkBindingKey(ex Exchange, key string, present bool) string {
	switch {
	case ex.IsDefault():
		if present {
			return "routing_key is not allowed for queues on the default exchange; they are routed by queue name"
		}
	case ex.Kind.RequiresRoutingKey() && !present:
		return fmt.Sprintf("routing_key is required for queues bound to %s exchange %q", ex.Kind, ex.Name)
	case !ex.Kind.RequiresRoutingKey() && present:
		return fmt.Sprintf("routing_key is not allowed for queues bound to %s exchange %q", ex.Kind, ex.Name)
	case ex.Kind == KindTopic:
		return checkTopicPattern(key)
	}
	return ""
}
