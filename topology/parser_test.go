package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/xraph/batch"
)

func TestParse_Basic(t *testing.T) {
	t.Parallel()

	src := `# topology for the mailer
exchanges {
    emails { kind = topic, durable = true }
}

queues {
    "email-queue" {
        bound_exchange = emails   // inline comment
        routing_key = "emails.send"
    }
}
`
	f, err := Parse("mail.topo", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(f.Blocks))
	}

	ex := f.Entries(BlockExchanges)
	if len(ex) != 1 || ex[0].Name != "emails" {
		t.Fatalf("unexpected exchange entries: %+v", ex)
	}
	kind, ok := ex[0].Attr(AttrKind)
	if !ok || kind.Value.Kind != ValueIdent || kind.Value.Text != "topic" {
		t.Errorf("kind attr = %+v", kind)
	}
	durable, _ := ex[0].Attr(AttrDurable)
	if durable.Value.Kind != ValueBool || !durable.Value.Bool() {
		t.Errorf("durable attr = %+v", durable)
	}

	qs := f.Entries(BlockQueues)
	if len(qs) != 1 || qs[0].Name != "email-queue" {
		t.Fatalf("unexpected queue entries: %+v", qs)
	}
	rk, _ := qs[0].Attr(AttrRoutingKey)
	if rk.Value.Kind != ValueString || rk.Value.Text != "emails.send" {
		t.Errorf("routing_key attr = %+v", rk)
	}
}

func TestParse_Spans(t *testing.T) {
	t.Parallel()

	src := "exchanges {\n  emails { kind = topic }\n}\n"
	f, err := Parse("s.topo", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := f.Entries(BlockExchanges)[0]
	if e.NameSpan.Start.Line != 2 || e.NameSpan.Start.Col != 3 {
		t.Errorf("name span = %v, want line 2 col 3", e.NameSpan.Start)
	}
	if got := e.NameSpan.String(); got != "s.topo:2:3" {
		t.Errorf("span string = %q", got)
	}
	a, _ := e.Attr(AttrKind)
	if a.Value.Span.Start.Col != 19 {
		t.Errorf("value col = %d, want 19", a.Value.Span.Start.Col)
	}
}

func TestParse_StringEscapes(t *testing.T) {
	t.Parallel()

	f, err := Parse("", `queues { q { routing_key = "a\"b\\c" } }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, _ := f.Entries(BlockQueues)[0].Attr(AttrRoutingKey)
	if a.Value.Text != `a"b\c` {
		t.Errorf("Text = %q", a.Value.Text)
	}
}

func TestParse_UnknownKeysAreLeftToValidator(t *testing.T) {
	t.Parallel()

	f, err := Parse("", `exchanges { e { kind = direct, colour = "blue" } }`)
	if err != nil {
		t.Fatalf("unknown attribute should parse, got %v", err)
	}
	if _, ok := f.Entries(BlockExchanges)[0].Attr("colour"); !ok {
		t.Fatal("expected colour attribute in tree")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"missing block brace", `exchanges e { kind = direct }`, `expected "{" after "exchanges"`},
		{"unknown block", `topics { }`, `expected block keyword "exchanges" or "queues", found identifier "topics"`},
		{"unclosed block", `exchanges { e { kind = direct }`, `expected "}" to close "exchanges" block`},
		{"unclosed entry", `exchanges { e { kind = direct `, `expected "}" to close entry "e"`},
		{"missing equals", `exchanges { e { kind direct } }`, `expected "=" after attribute key "kind"`},
		{"missing value", `exchanges { e { kind = } }`, `expected value for attribute "kind"`},
		{"bool typed", `exchanges { e { kind = direct, durable = "yes" } }`, `attribute "durable" expects a boolean, found string "yes"`},
		{"string typed", `queues { q { routing_key = emails } }`, `attribute "routing_key" expects a string, found identifier emails`},
		{"kind typed", `exchanges { e { kind = true } }`, `attribute "kind" expects an identifier or a string, found boolean true`},
		{"unterminated string", `queues { q { routing_key = "abc } }`, "unterminated string literal"},
		{"illegal char", `exchanges { e { kind = direct; } }`, `illegal input ";"`},
		{"entry name", `exchanges { = }`, "expected entry name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("bad.topo", tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if f != nil {
				t.Error("expected nil file on error")
			}
			if !errors.Is(err, batch.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_RecoversAndReportsAll(t *testing.T) {
	t.Parallel()

	src := `exchanges {
    a { kind direct }
    b { kind = topic }
    c { durable = "no" }
}
queues {
    q { routing_key = key }
}
`
	_, err := Parse("multi.topo", src)
	var r *Report
	if !errors.As(err, &r) {
		t.Fatalf("expected *Report, got %T", err)
	}
	diags := r.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d:\n%v", len(diags), err)
	}
	wantLines := []int{2, 4, 7}
	for i, d := range diags {
		if !d.IsParseError() {
			t.Errorf("diag %d is not a parse error: %v", i, d)
		}
		if d.Span.Start.Line != wantLines[i] {
			t.Errorf("diag %d line = %d, want %d", i, d.Span.Start.Line, wantLines[i])
		}
	}
}
