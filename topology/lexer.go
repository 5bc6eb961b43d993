package topology

import (
	"strings"
	"unicode/utf8"
)

// lexer splits declaration source into tokens. Whitespace, newlines and
// comments ("#" or "//" to end of line) separate tokens and are dropped.
type lexer struct {
	file string
	src  string
	off  int
	line int
	col  int

	// errs collects lexical errors (unterminated strings, bad escapes).
	errs []*Diagnostic
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: src, line: 1, col: 1}
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *lexer) peekByte(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}
	return 0
}

func (l *lexer) advance() {
	if l.off >= len(l.src) {
		return
	}
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '#' || (c == '/' && l.peekByte(1) == '/'):
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) span(start Pos) Span {
	return Span{File: l.file, Start: start, End: l.pos()}
}

// next returns the next token. At end of input it keeps returning tokEOF.
func (l *lexer) next() token {
	l.skipSpaceAndComments()
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, span: l.span(start)}
	}

	c := l.src[l.off]
	switch {
	case c == '{':
		l.advance()
		return token{kind: tokLBrace, text: "{", span: l.span(start)}
	case c == '}':
		l.advance()
		return token{kind: tokRBrace, text: "}", span: l.span(start)}
	case c == '=':
		l.advance()
		return token{kind: tokAssign, text: "=", span: l.span(start)}
	case c == ',':
		l.advance()
		return token{kind: tokComma, text: ",", span: l.span(start)}
	case c == '"':
		return l.lexString(start)
	case isIdentStart(c):
		for l.off < len(l.src) && isIdentPart(l.src[l.off]) {
			l.advance()
		}
		return token{kind: tokIdent, text: l.src[start.Offset:l.off], span: l.span(start)}
	}

	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	for i := 0; i < size; i++ {
		l.advance()
	}
	return token{kind: tokIllegal, text: string(r), span: l.span(start)}
}

// lexString scans a double-quoted string. Supported escapes are \" \\ \n
// and \t. Strings may not span lines.
func (l *lexer) lexString(start Pos) token {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.off >= len(l.src) || l.src[l.off] == '\n' {
			l.errs = append(l.errs, newDiagnostic(CodeSyntax, l.span(start), "unterminated string literal"))
			return token{kind: tokString, text: b.String(), span: l.span(start)}
		}
		c := l.src[l.off]
		switch c {
		case '"':
			l.advance()
			return token{kind: tokString, text: b.String(), span: l.span(start)}
		case '\\':
			escStart := l.pos()
			l.advance()
			switch l.peekByte(0) {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				l.errs = append(l.errs, newDiagnostic(CodeSyntax, l.span(escStart),
					"unknown escape sequence in string literal"))
			}
			l.advance()
		default:
			b.WriteByte(c)
			l.advance()
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
