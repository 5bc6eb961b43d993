package topology

import "fmt"

// Pos is a position in declaration source. Line and Col are 1-based; Col
// counts bytes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Span locates a syntax element in a named source.
type Span struct {
	File  string
	Start Pos
	End   Pos
}

// String renders the span start in compiler style: "file:line:col".
func (s Span) String() string {
	file := s.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, s.Start.Line, s.Start.Col)
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.Start.Line == 0
}
