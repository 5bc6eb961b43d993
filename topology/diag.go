package topology

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/xraph/batch"
)

// Code classifies a diagnostic.
type Code string

const (
	// CodeSyntax marks a ParseError: malformed declaration syntax.
	CodeSyntax Code = "syntax"

	// Validation codes.
	CodeDuplicateName    Code = "duplicate-name"
	CodeDuplicateAttr    Code = "duplicate-attribute"
	CodeMissingAttribute Code = "missing-attribute"
	CodeUnknownAttribute Code = "unknown-attribute"
	CodeInvalidValue     Code = "invalid-value"
	CodeUnknownExchange  Code = "unknown-exchange"
	CodeRoutingKey       Code = "routing-key"
)

var codeErrors = map[Code]error{
	CodeSyntax:           batch.ErrParse,
	CodeDuplicateName:    batch.ErrDuplicateName,
	CodeDuplicateAttr:    batch.ErrDuplicateAttr,
	CodeMissingAttribute: batch.ErrMissingAttribute,
	CodeUnknownAttribute: batch.ErrUnknownAttribute,
	CodeInvalidValue:     batch.ErrInvalidValue,
	CodeUnknownExchange:  batch.ErrUnknownExchange,
	CodeRoutingKey:       batch.ErrRoutingKey,
}

// Severity grades a diagnostic. Every diagnostic produced today is fatal.
type Severity int

const (
	SeverityError Severity = iota
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Diagnostic is a single located problem found while compiling a
// declaration unit. A diagnostic with CodeSyntax is a parse error; any
// other code is a validation error.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     Span
	Message  string
}

func newDiagnostic(code Code, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error renders the diagnostic as "file:line:col: error: message".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// Unwrap exposes the sentinel error for the diagnostic code so callers can
// test with errors.Is(err, batch.ErrUnknownExchange) and friends.
func (d *Diagnostic) Unwrap() error {
	return codeErrors[d.Code]
}

// IsParseError reports whether d came from the parser.
func (d *Diagnostic) IsParseError() bool { return d.Code == CodeSyntax }

// Report aggregates the diagnostics of one compilation unit. The zero value
// is an empty report ready for use.
type Report struct {
	err error
}

// Add appends diagnostics to the report.
func (r *Report) Add(diags ...*Diagnostic) {
	for _, d := range diags {
		if d != nil {
			r.err = multierr.Append(r.err, d)
		}
	}
}

// Merge appends every diagnostic of other.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.err = multierr.Append(r.err, other.err)
	}
}

// Len returns the number of diagnostics.
func (r *Report) Len() int {
	return len(multierr.Errors(r.err))
}

// Empty reports whether the report holds no diagnostics.
func (r *Report) Empty() bool { return r.err == nil }

// Diagnostics returns the diagnostics ordered by source position. Ties keep
// the order in which they were added.
func (r *Report) Diagnostics() []*Diagnostic {
	errs := multierr.Errors(r.err)
	out := make([]*Diagnostic, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.(*Diagnostic)) //nolint:errcheck // Add only accepts diagnostics
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Span, out[j].Span
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start.Offset < b.Start.Offset
	})
	return out
}

// Err returns nil for an empty report and the report itself otherwise.
func (r *Report) Err() error {
	if r.Empty() {
		return nil
	}
	return r
}

// Error renders every diagnostic on its own line followed by a count, the
// way compilers do.
func (r *Report) Error() string {
	diags := r.Diagnostics()
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.Error())
		b.WriteByte('\n')
	}
	if len(diags) == 1 {
		b.WriteString("1 error")
	} else {
		fmt.Fprintf(&b, "%d errors", len(diags))
	}
	return b.String()
}

// Unwrap returns the individual diagnostics for errors.Is and errors.As.
func (r *Report) Unwrap() []error {
	diags := r.Diagnostics()
	out := make([]error, len(diags))
	for i, d := range diags {
		out[i] = d
	}
	return out
}

// Has reports whether any diagnostic carries the given code.
func (r *Report) Has(code Code) bool {
	for _, d := range r.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}
