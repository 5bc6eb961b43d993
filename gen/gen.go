package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/xraph/batch"
	"github.com/xraph/batch/topology"
)

// DefaultImportPath is the import path of the topology package referenced
// by generated code.
const DefaultImportPath = "github.com/xraph/batch/topology"

// Options controls code generation.
type Options struct {
	// Package is the package clause of the generated file. Default "topo".
	Package string

	// ImportPath overrides the topology package import path.
	ImportPath string

	// Sources lists the declaration files, quoted in the header comment.
	Sources []string
}

type exchangeView struct {
	Ident string
	topology.Exchange
}

type queueView struct {
	Ident string
	topology.Queue
}

type fileView struct {
	Package    string
	ImportPath string
	Sources    string
	Exchanges  []exchangeView
	Queues     []queueView
}

var fileTmpl = template.Must(template.New("topology").Parse(`// Code generated by batchgen{{if .Sources}} from {{.Sources}}{{end}}. DO NOT EDIT.

package {{.Package}}

import "{{.ImportPath}}"
{{range .Exchanges}}
// {{.Ident}} returns the {{printf "%q" .Name}} {{.Kind}} exchange.
func {{.Ident}}() topology.Exchange {
	return topology.Exchange{
		Name: {{printf "%q" .Name}},
		Kind: topology.{{.Kind.GoName}},
		Durable: {{.Durable}},
		AutoDelete: {{.AutoDelete}},
		Internal: {{.Internal}},
	}
}
{{end}}{{range .Queues}}
// {{.Ident}} returns the {{printf "%q" .Name}} queue, bound to {{if .Exchange}}{{printf "%q" .Exchange}}{{if .RoutingKey}} with key {{printf "%q" .RoutingKey}}{{end}}{{else}}the default exchange{{end}}.
func {{.Ident}}() topology.Queue {
	return topology.Queue{
		Name: {{printf "%q" .Name}},
		Exchange: {{printf "%q" .Exchange}},
		RoutingKey: {{printf "%q" .RoutingKey}},
		Durable: {{.Durable}},
		AutoDelete: {{.AutoDelete}},
		Exclusive: {{.Exclusive}},
	}
}
{{end}}
var declared = topology.MustNew(
	[]topology.Exchange{ {{- range .Exchanges}}
		{{.Ident}}(),{{end}}
	},
	[]topology.Queue{ {{- range .Queues}}
		{{.Ident}}(),{{end}}
	},
)

// Topology returns every declared exchange and queue.
func Topology() *topology.Topology { return declared }
`))

// Generate renders Go source binding every exchange and queue of t.
// Entries are emitted in declaration order, so identical topologies always
// yield identical bytes.
func Generate(t *topology.Topology, opts Options) ([]byte, error) {
	v := fileView{
		Package:    opts.Package,
		ImportPath: opts.ImportPath,
		Sources:    strings.Join(opts.Sources, ", "),
	}
	if v.Package == "" {
		v.Package = "topo"
	}
	if v.ImportPath == "" {
		v.ImportPath = DefaultImportPath
	}

	seen := make(map[string]string)
	claim := func(ident, what string) error {
		if prev, dup := seen[ident]; dup {
			return fmt.Errorf("%w: %s and %s both map to %s", batch.ErrIdentCollision, prev, what, ident)
		}
		seen[ident] = what
		return nil
	}

	for _, e := range t.Exchanges() {
		ident, err := exportedIdent("Exchange", e.Name)
		if err != nil {
			return nil, err
		}
		if err := claim(ident, fmt.Sprintf("exchange %q", e.Name)); err != nil {
			return nil, err
		}
		v.Exchanges = append(v.Exchanges, exchangeView{Ident: ident, Exchange: e})
	}
	for _, q := range t.Queues() {
		ident, err := exportedIdent("Queue", q.Name)
		if err != nil {
			return nil, err
		}
		if err := claim(ident, fmt.Sprintf("queue %q", q.Name)); err != nil {
			return nil, err
		}
		v.Queues = append(v.Queues, queueView{Ident: ident, Queue: q})
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format generated source: %w", err)
	}
	return src, nil
}
