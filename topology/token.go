package topology

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIllegal
	tokIdent
	tokString
	tokLBrace
	tokRBrace
	tokAssign
	tokComma
)

var tokenNames = [...]string{
	tokEOF:     "end of input",
	tokIllegal: "illegal character",
	tokIdent:   "identifier",
	tokString:  "string",
	tokLBrace:  `"{"`,
	tokRBrace:  `"}"`,
	tokAssign:  `"="`,
	tokComma:   `","`,
}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

type token struct {
	kind tokenKind
	// text is the identifier, the unquoted string, or the offending input.
	text string
	span Span
}

// describe renders the token for "expected X, found Y" messages.
func (t token) describe() string {
	switch t.kind {
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.text)
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokIllegal:
		return fmt.Sprintf("illegal input %q", t.text)
	default:
		return t.kind.String()
	}
}
