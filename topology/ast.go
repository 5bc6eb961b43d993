package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockKind names a declaration block.
type BlockKind string

const (
	BlockExchanges BlockKind = "exchanges"
	BlockQueues    BlockKind = "queues"
)

// ValueKind is the lexical type of an attribute value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueIdent
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueIdent:
		return "identifier"
	case ValueBool:
		return "boolean"
	default:
		return fmt.Sprintf("value(%d)", int(k))
	}
}

// Value is an attribute literal.
type Value struct {
	Kind ValueKind
	// Text holds the identifier or unquoted string. For booleans it is
	// "true" or "false".
	Text string
	Span Span
}

// Bool returns the boolean value. Only meaningful for ValueBool.
func (v Value) Bool() bool { return v.Kind == ValueBool && v.Text == "true" }

func (v Value) String() string {
	if v.Kind == ValueString {
		return strconv.Quote(v.Text)
	}
	return v.Text
}

// Attr is a "key = value" pair inside an entry.
type Attr struct {
	Key     string
	KeySpan Span
	Value   Value
}

// Entry is one named exchange or queue declaration.
type Entry struct {
	Name     string
	NameSpan Span
	Attrs    []Attr
	// Span covers the entry from its name to the closing brace.
	Span Span
}

// Attr returns the first attribute with the given key.
func (e *Entry) Attr(key string) (Attr, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attr{}, false
}

// Block is an "exchanges { ... }" or "queues { ... }" section.
type Block struct {
	Kind    BlockKind
	Span    Span
	Entries []*Entry
}

// File is the syntax tree of one declaration source.
type File struct {
	Name   string
	Blocks []*Block
}

// Entries returns every entry of the given block kind in source order.
func (f *File) Entries(kind BlockKind) []*Entry {
	var out []*Entry
	for _, b := range f.Blocks {
		if b.Kind == kind {
			out = append(out, b.Entries...)
		}
	}
	return out
}

// attrSpec describes the literal types accepted by a known attribute key.
type attrSpec struct {
	accepts []ValueKind
}

func (s attrSpec) allows(k ValueKind) bool {
	for _, a := range s.accepts {
		if a == k {
			return true
		}
	}
	return false
}

func (s attrSpec) describe() string {
	parts := make([]string, len(s.accepts))
	for i, k := range s.accepts {
		parts[i] = article(k.String()) + " " + k.String()
	}
	return strings.Join(parts, " or ")
}

func article(word string) string {
	if strings.ContainsRune("aeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}

// Attribute keys recognized per block kind.
const (
	AttrKind          = "kind"
	AttrDurable       = "durable"
	AttrAutoDelete    = "auto_delete"
	AttrInternal      = "internal"
	AttrBoundExchange = "bound_exchange"
	AttrRoutingKey    = "routing_key"
	AttrExclusive     = "exclusive"
)

var boolAttr = attrSpec{accepts: []ValueKind{ValueBool}}

var attrSpecs = map[BlockKind]map[string]attrSpec{
	BlockExchanges: {
		AttrKind:       {accepts: []ValueKind{ValueIdent, ValueString}},
		AttrDurable:    boolAttr,
		AttrAutoDelete: boolAttr,
		AttrInternal:   boolAttr,
	},
	BlockQueues: {
		AttrBoundExchange: {accepts: []ValueKind{ValueIdent, ValueString}},
		AttrRoutingKey:    {accepts: []ValueKind{ValueString}},
		AttrDurable:       boolAttr,
		AttrAutoDelete:    boolAttr,
		AttrExclusive:     boolAttr,
	},
}
