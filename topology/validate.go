package topology

import (
	"fmt"
	"sort"
	"strings"
)

// declared tracks an exchange name visible to queue declarations.
type declared struct {
	kind Kind
	// kindOK is false when the exchange's kind was missing or invalid; key
	// rules are skipped for its queues to avoid follow-on diagnostics.
	kindOK bool
	span   Span
}

type validator struct {
	report Report
}

func (v *validator) add(code Code, span Span, format string, args ...any) {
	v.report.Add(newDiagnostic(code, span, format, args...))
}

// Validate checks parsed declarations and returns the resolved topology.
// All files form one compilation unit: names must be unique across them
// and queues may reference exchanges declared in any of them. scope, when
// non-nil, holds a previously compiled topology whose exchanges and queues
// are visible to the unit and are carried into the result ahead of it.
//
// Validation never stops at the first problem. When anything is wrong the
// topology is nil and the error is a *Report with every diagnostic.
func Validate(scope *Topology, files ...*File) (*Topology, error) {
	v := &validator{}

	var exchanges []Exchange
	var queues []Queue
	known := map[string]declared{DefaultExchangeName: {kind: KindDirect, kindOK: true}}
	queueNames := make(map[string]Span)

	if scope != nil {
		for _, e := range scope.Exchanges() {
			known[e.Name] = declared{kind: e.Kind, kindOK: true}
			exchanges = append(exchanges, e)
		}
		for _, q := range scope.Queues() {
			queueNames[q.Name] = Span{}
			queues = append(queues, q)
		}
	}

	for _, f := range files {
		for _, e := range f.Entries(BlockExchanges) {
			ex, ok, kindOK := v.exchange(e)
			if prev, dup := known[e.Name]; dup && e.Name != DefaultExchangeName {
				v.add(CodeDuplicateName, e.NameSpan, "exchange %q is already declared%s", e.Name, where(prev.span))
				continue
			}
			if e.Name == DefaultExchangeName {
				continue
			}
			known[e.Name] = declared{kind: ex.Kind, kindOK: kindOK, span: e.NameSpan}
			if ok {
				exchanges = append(exchanges, ex)
			}
		}
	}

	for _, f := range files {
		for _, e := range f.Entries(BlockQueues) {
			q, ok := v.queue(e, known)
			if prev, dup := queueNames[e.Name]; dup {
				v.add(CodeDuplicateName, e.NameSpan, "queue %q is already declared%s", e.Name, where(prev))
				continue
			}
			queueNames[e.Name] = e.NameSpan
			if ok {
				queues = append(queues, q)
			}
		}
	}

	if err := v.report.Err(); err != nil {
		return nil, err
	}
	t, err := New(exchanges, queues)
	if err != nil {
		return nil, fmt.Errorf("topology: validated declarations rejected: %w", err)
	}
	return t, nil
}

// exchange resolves one exchange entry. ok reports whether the entry is
// valid as a whole; kindOK only whether its kind resolved, which is all
// the routing-key checks of its queues depend on.
func (v *validator) exchange(e *Entry) (ex Exchange, ok, kindOK bool) {
	ok = true
	ex = Exchange{Name: e.Name, Durable: true}

	if msg := checkExchangeName(e.Name); msg != "" {
		v.add(CodeInvalidValue, e.NameSpan, "%s", msg)
		ok = false
	}

	attrs := v.attrs(e, BlockExchanges)
	if a, found := attrs[AttrKind]; !found {
		v.add(CodeMissingAttribute, e.NameSpan, "exchange %q is missing required attribute %q", e.Name, AttrKind)
		ok = false
	} else if k, err := ParseKind(a.Value.Text); err != nil {
		v.add(CodeInvalidValue, a.Value.Span, "unknown exchange kind %q; expected one of %s",
			a.Value.Text, strings.Join(kindNames[:], ", "))
		ok = false
	} else {
		ex.Kind = k
		kindOK = true
	}

	ok = v.boolAttr(attrs, AttrDurable, &ex.Durable) && ok
	ok = v.boolAttr(attrs, AttrAutoDelete, &ex.AutoDelete) && ok
	ok = v.boolAttr(attrs, AttrInternal, &ex.Internal) && ok
	return ex, ok, kindOK
}

func (v *validator) queue(e *Entry, known map[string]declared) (Queue, bool) {
	ok := true
	q := Queue{Name: e.Name, Durable: true}

	if e.Name == "" {
		v.add(CodeInvalidValue, e.NameSpan, "queue name is empty")
		ok = false
	}

	attrs := v.attrs(e, BlockQueues)
	ok = v.boolAttr(attrs, AttrDurable, &q.Durable) && ok
	ok = v.boolAttr(attrs, AttrAutoDelete, &q.AutoDelete) && ok
	ok = v.boolAttr(attrs, AttrExclusive, &q.Exclusive) && ok

	keyAttr, hasKey := attrs[AttrRoutingKey]
	q.RoutingKey = keyAttr.Value.Text
	keySpan := e.NameSpan
	if hasKey {
		keySpan = keyAttr.Value.Span
	}

	if a, found := attrs[AttrBoundExchange]; found {
		q.Exchange = a.Value.Text
		if _, resolved := known[q.Exchange]; !resolved {
			v.add(CodeUnknownExchange, a.Value.Span, "queue %q is bound to unknown exchange %q", e.Name, q.Exchange)
			return q, false
		}
	}

	target := known[q.Exchange]
	if !target.kindOK {
		return q, false
	}
	ex := Exchange{Name: q.Exchange, Kind: target.kind}
	if hasKey && q.RoutingKey == "" && ex.Kind.RequiresRoutingKey() && !ex.IsDefault() {
		v.add(CodeRoutingKey, keySpan, "routing_key of queue %q must not be empty", e.Name)
		return q, false
	}
	if msg := checkBindingKey(ex, q.RoutingKey, hasKey); msg != "" {
		v.add(CodeRoutingKey, keySpan, "queue %q: %s", e.Name, msg)
		return q, false
	}
	return q, ok
}

// attrs indexes an entry's attributes by key, reporting unknown and
// repeated keys.
func (v *validator) attrs(e *Entry, kind BlockKind) map[string]Attr {
	specs := attrSpecs[kind]
	out := make(map[string]Attr, len(e.Attrs))
	for _, a := range e.Attrs {
		if _, isKnown := specs[a.Key]; !isKnown {
			v.add(CodeUnknownAttribute, a.KeySpan, "unknown attribute %q in %s entry %q; expected one of %s",
				a.Key, kind, e.Name, strings.Join(knownKeys(kind), ", "))
			continue
		}
		if prev, dup := out[a.Key]; dup {
			v.add(CodeDuplicateAttr, a.KeySpan, "attribute %q is set more than once in entry %q (first at %s)",
				a.Key, e.Name, prev.KeySpan)
			continue
		}
		out[a.Key] = a
	}
	return out
}

// boolAttr copies a boolean attribute into dst when present.
func (v *validator) boolAttr(attrs map[string]Attr, key string, dst *bool) bool {
	a, found := attrs[key]
	if !found {
		return true
	}
	if a.Value.Kind != ValueBool {
		v.add(CodeInvalidValue, a.Value.Span, "attribute %q expects true or false, found %s", key, a.Value)
		return false
	}
	*dst = a.Value.Bool()
	return true
}

func knownKeys(kind BlockKind) []string {
	keys := make([]string, 0, len(attrSpecs[kind]))
	for k := range attrSpecs[kind] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func where(span Span) string {
	if span.IsZero() {
		return " in an enclosing topology"
	}
	return " at " + span.String()
}
