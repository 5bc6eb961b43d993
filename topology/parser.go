package topology

// parser is a recursive-descent parser over the lexer's token stream. It
// checks structure and literal types only; semantic rules live in the
// validator. After a syntax error it resynchronizes at the next attribute,
// entry or block so that one pass reports every syntax error.
type parser struct {
	lx     *lexer
	tok    token
	report Report
}

// Parse parses one declaration source. name is used in spans and
// diagnostics. On any syntax error it returns a nil File and a *Report
// holding every ParseError found.
func Parse(name, src string) (*File, error) {
	p := &parser{lx: newLexer(name, src)}
	p.next()
	f := p.parseFile(name)
	p.report.Add(p.lx.errs...)
	if err := p.report.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *parser) next() {
	p.tok = p.lx.next()
}

func (p *parser) errorf(span Span, format string, args ...any) {
	p.report.Add(newDiagnostic(CodeSyntax, span, format, args...))
}

func (p *parser) parseFile(name string) *File {
	f := &File{Name: name}
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokIdent && (p.tok.text == string(BlockExchanges) || p.tok.text == string(BlockQueues)) {
			f.Blocks = append(f.Blocks, p.parseBlock())
			continue
		}
		p.errorf(p.tok.span, `expected block keyword "exchanges" or "queues", found %s`, p.tok.describe())
		p.skipToBlock()
	}
	return f
}

func (p *parser) parseBlock() *Block {
	b := &Block{Kind: BlockKind(p.tok.text), Span: p.tok.span}
	p.next()

	if p.tok.kind != tokLBrace {
		p.errorf(p.tok.span, `expected "{" after %q, found %s`, string(b.Kind), p.tok.describe())
		p.skipToBlock()
		return b
	}
	open := p.tok.span
	p.next()

	for {
		switch p.tok.kind {
		case tokRBrace:
			b.Span.End = p.tok.span.End
			p.next()
			return b
		case tokEOF:
			p.errorf(p.tok.span, `expected "}" to close %q block opened at %s, found end of input`, string(b.Kind), open)
			return b
		case tokComma:
			p.next()
		case tokIdent, tokString:
			b.Entries = append(b.Entries, p.parseEntry(b.Kind))
		default:
			p.errorf(p.tok.span, "expected entry name (identifier or string), found %s", p.tok.describe())
			p.skipGroupOrToken()
		}
	}
}

func (p *parser) parseEntry(kind BlockKind) *Entry {
	e := &Entry{Name: p.tok.text, NameSpan: p.tok.span, Span: p.tok.span}
	p.next()

	if p.tok.kind != tokLBrace {
		p.errorf(p.tok.span, `expected "{" after entry name %q, found %s`, e.Name, p.tok.describe())
		p.skipGroupOrToken()
		return e
	}
	open := p.tok.span
	p.next()

	for {
		switch p.tok.kind {
		case tokRBrace:
			e.Span.End = p.tok.span.End
			p.next()
			return e
		case tokEOF:
			p.errorf(p.tok.span, `expected "}" to close entry %q opened at %s, found end of input`, e.Name, open)
			return e
		case tokComma:
			p.next()
		case tokIdent:
			if a, ok := p.parseAttr(kind); ok {
				e.Attrs = append(e.Attrs, a)
			}
		default:
			p.errorf(p.tok.span, "expected attribute key in entry %q, found %s", e.Name, p.tok.describe())
			p.skipAttr()
		}
	}
}

func (p *parser) parseAttr(kind BlockKind) (Attr, bool) {
	a := Attr{Key: p.tok.text, KeySpan: p.tok.span}
	p.next()

	if p.tok.kind != tokAssign {
		p.errorf(p.tok.span, `expected "=" after attribute key %q, found %s`, a.Key, p.tok.describe())
		p.skipAttr()
		return a, false
	}
	p.next()

	switch p.tok.kind {
	case tokString:
		a.Value = Value{Kind: ValueString, Text: p.tok.text, Span: p.tok.span}
	case tokIdent:
		vk := ValueIdent
		if p.tok.text == "true" || p.tok.text == "false" {
			vk = ValueBool
		}
		a.Value = Value{Kind: vk, Text: p.tok.text, Span: p.tok.span}
	default:
		p.errorf(p.tok.span, "expected value for attribute %q (string, identifier or boolean), found %s",
			a.Key, p.tok.describe())
		p.skipAttr()
		return a, false
	}
	p.next()

	if spec, known := attrSpecs[kind][a.Key]; known && !spec.allows(a.Value.Kind) {
		p.errorf(a.Value.Span, "attribute %q expects %s, found %s %s",
			a.Key, spec.describe(), a.Value.Kind, a.Value)
		return a, false
	}
	return a, true
}

// skipAttr discards tokens up to the next ",", the "}" closing the current
// entry (left unconsumed) or end of input. Nested brace groups are skipped
// whole.
func (p *parser) skipAttr() {
	for {
		switch p.tok.kind {
		case tokEOF, tokRBrace:
			return
		case tokComma:
			p.next()
			return
		case tokLBrace:
			p.skipGroupOrToken()
		default:
			p.next()
		}
	}
}

// skipGroupOrToken consumes one token, or a whole balanced brace group when
// positioned on "{".
func (p *parser) skipGroupOrToken() {
	if p.tok.kind != tokLBrace {
		p.next()
		return
	}
	depth := 0
	for p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokLBrace:
			depth++
		case tokRBrace:
			depth--
		}
		p.next()
		if depth == 0 {
			return
		}
	}
}

// skipToBlock discards tokens until a block keyword appears at brace depth
// zero or input ends.
func (p *parser) skipToBlock() {
	depth := 0
	for p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokLBrace:
			depth++
		case tokRBrace:
			if depth > 0 {
				depth--
			}
		case tokIdent:
			if depth == 0 && (p.tok.text == string(BlockExchanges) || p.tok.text == string(BlockQueues)) {
				return
			}
		}
		p.next()
	}
}
