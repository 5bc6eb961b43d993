package topology

import "errors"

// Source is one named declaration text.
type Source struct {
	Name string
	Text string
}

// Option configures Compile.
type Option func(*compileOptions)

type compileOptions struct {
	scope *Topology
}

// WithScope makes a previously compiled topology visible to the unit.
func WithScope(t *Topology) Option {
	return func(o *compileOptions) { o.scope = t }
}

// Compile parses and validates the sources as one compilation unit.
//
// Success is all-or-nothing: either a topology and a nil error, or a nil
// topology and a *Report. When any source fails to parse, the report holds
// every parse error of every source and validation is skipped, since
// validating a partial tree would report problems the author did not make.
func Compile(sources []Source, opts ...Option) (*Topology, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	var report Report
	files := make([]*File, 0, len(sources))
	for _, src := range sources {
		f, err := Parse(src.Name, src.Text)
		if err != nil {
			var r *Report
			if !errors.As(err, &r) {
				return nil, err
			}
			report.Merge(r)
			continue
		}
		files = append(files, f)
	}
	if err := report.Err(); err != nil {
		return nil, err
	}
	return Validate(o.scope, files...)
}

// CompileString compiles a single source.
func CompileString(name, text string, opts ...Option) (*Topology, error) {
	return Compile([]Source{{Name: name, Text: text}}, opts...)
}
