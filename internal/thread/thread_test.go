package thread

import (
	"strings"
	"testing"

	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/lexer"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/prettyprinter"
)

// expandSource lexes body and rewrites it with opts.
func expandSource(t *testing.T, body string, opts Options) (string, *diagnostics.DiagnosticError) {
	t.Helper()
	tokens, errs := lexer.Tokenize(body)
	if len(errs) > 0 {
		t.Fatalf("lexing %q: %v", body, errs[0])
	}
	expr, err := Expand(tokens, opts)
	if err != nil {
		return "", err
	}
	return prettyprinter.Print(expr), nil
}

func expectExpansion(t *testing.T, body, want string) {
	t.Helper()
	got, err := expandSource(t, body, Options{})
	if err != nil {
		t.Fatalf("thread!(%s): unexpected error: %v", body, err)
	}
	if got != want {
		t.Errorf("thread!(%s)\n got: %s\nwant: %s", body, got, want)
	}
}

func expectExpandError(t *testing.T, body string, opts Options, code diagnostics.ErrorCode, substr string) {
	t.Helper()
	got, err := expandSource(t, body, opts)
	if err == nil {
		t.Fatalf("thread!(%s): expected %s, got expansion %s", body, code, got)
	}
	if err.Code != code {
		t.Fatalf("thread!(%s): expected %s, got %s", body, code, err.Error())
	}
	if !strings.Contains(err.Message, substr) {
		t.Errorf("thread!(%s): expected message containing %q, got %q", body, substr, err.Message)
	}
}

// ---------------------------------------------------------------------------
// Plain threading
// ---------------------------------------------------------------------------

func TestPlainThreading(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"x in f", "f(x)"},
		{"x in f, g(1), h", "h(g(f(x), 1))"},
		{"x in f, g,", "g(f(x))"},
		{"x first in g(1)", "g(x, 1)"},
		{"x last in f, g(1)", "g(1, f(x))"},
		{"x last in g(1, 2)", "g(1, 2, x)"},
		{"a + b in f", "f(a + b)"},
		{"x in self.push", "self.push(x)"},
		{"x in v.iter().fold(0)", "v.iter().fold(x, 0)"},
		{"x in Vec::with_capacity", "Vec::with_capacity(x)"},
		{"x in |v| v + 1", "{ |v| v + 1 }(x)"},
		{"x in if c { f } else { g }", "if c { f } else { g }(x)"},
		{"x in m!(1)", "m!(1)(x)"},
		{"x in (f)", "(f)(x)"},
		{"x in t.0", "(t.0)(x)"},
	}
	for _, tt := range tests {
		expectExpansion(t, tt.body, tt.want)
	}
}

func TestLetAlias(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"let a = x in f(a, 1)", "{ let a = x; let a = f(a, 1); a }"},
		{"let a = x in f, g(a, 2)", "{ let a = x; let a = f(a); let a = g(a, 2); a }"},
		{"let (a) = x in f", "{ let a = x; let a = f(a); a }"},
		// A placement after an alias is accepted and has no effect.
		{"let a = x last in f(1, a)", "{ let a = x; let a = f(1, a); a }"},
	}
	for _, tt := range tests {
		expectExpansion(t, tt.body, tt.want)
	}
}

// ---------------------------------------------------------------------------
// Some / Ok
// ---------------------------------------------------------------------------

func TestMapThreading(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"Some x in f", "x.map(|i| f(i))"},
		{"Some x in f, g(1)", "x.map(|i| f(i)).map(|i| g(i, 1))"},
		{"Ok x last in g(1)", "x.map(|i| g(1, i))"},
		{"Some(v) in f", "(v).map(|i| f(i))"},
		{"Some a + b in f", "(a + b).map(|i| f(i))"},
		{"let Some(a) = x in f, g(a, 1)", "{ let a = x; a.map(|a| f(a)).map(|a| g(a, 1)) }"},
		{"let Ok(a) = x in f", "{ let a = x; a.map(|a| f(a)) }"},
	}
	for _, tt := range tests {
		expectExpansion(t, tt.body, tt.want)
	}
}

// The bound name is not renamed away from names used in the steps: a user
// `i` is captured by the closure parameter unless hygienic names are on.
func TestBoundNameCapturesUserName(t *testing.T) {
	expectExpansion(t, "Some x in f(i)", "x.map(|i| f(i, i))")

	got, err := expandSource(t, "Some x in f(i)", Options{Hygienic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := HygienicName("i", "Some x in f(i)")
	if want := "x.map(|" + name + "| f(" + name + ", i))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRawIdentifierIsNotAKeyword(t *testing.T) {
	expectExpansion(t, "r#Some in f", "f(r#Some)")
}

func TestHygienicBoundName(t *testing.T) {
	opts := Options{Hygienic: true}
	got, err := expandSource(t, "Some x in f", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := HygienicName("i", "Some x in f")
	if !strings.HasPrefix(name, "__i_") || len(name) != len("__i_")+8 {
		t.Fatalf("unexpected hygienic name %q", name)
	}
	want := "x.map(|" + name + "| f(" + name + "))"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	again, _ := expandSource(t, "Some x in f", opts)
	if again != got {
		t.Errorf("hygienic name is not stable: %s vs %s", got, again)
	}
	if other := HygienicName("i", "Some y in f"); other == name {
		t.Errorf("different bodies produced the same name %q", name)
	}
}

func TestCustomBoundName(t *testing.T) {
	got, err := expandSource(t, "Ok x in f", Options{BoundName: "it"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "x.map(|it| f(it))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ---------------------------------------------------------------------------
// Cond / CondClone
// ---------------------------------------------------------------------------

func TestCondThreading(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"Cond x in c => f", "{ if c { f(x) } else { x } }"},
		{"Cond x last in n > 0 => g(1)", "{ if n > 0 { g(1, x) } else { x } }"},
		{
			"Cond x in c => f, d => g",
			"{ if d { g({ if c { f(x) } else { x } }) } else { { if c { f(x) } else { x } } } }",
		},
		{"CondClone x in c => f", "{ if c { f((x.clone())) } else { (x.clone()) } }"},
		{"let Cond(a) = x in c => f", "{ let a = x; let a = { if c { f(a) } else { a } }; a }"},
		{
			"let CondClone(a) = x in c => f, d => g(a, 1)",
			"{ let a = x; let a = { if c { f(a) } else { a } }; let a = { if d { g(a, 1) } else { (a.clone()) } }; a }",
		},
	}
	for _, tt := range tests {
		expectExpansion(t, tt.body, tt.want)
	}
}

// ---------------------------------------------------------------------------
// Turbofish method references
// ---------------------------------------------------------------------------

func TestTurbofishStep(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"x in it.collect::<Vec<_>>", "it.collect::<Vec<_>>(x)"},
		{"x in f, it.collect::<Vec<_>>, g", "g(it.collect::<Vec<_>>(f(x)))"},
		{"x in it.parse::<HashMap<K, V>>, g", "g(it.parse::<HashMap<K, V>>(x))"},
		{"Cond x in c => it.into::<u8>", "{ if c { it.into::<u8>(x) } else { x } }"},
	}
	for _, tt := range tests {
		expectExpansion(t, tt.body, tt.want)
	}
}

func TestParseTurboMethod(t *testing.T) {
	tokens, _ := lexer.Tokenize("xs.collect::<Vec<_>>")
	tm, err := ParseTurboMethod(tokens[:len(tokens)-1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.Method.Lexeme != "collect" {
		t.Errorf("method = %q, want collect", tm.Method.Lexeme)
	}
	if got := tm.String(); got != "xs.collect::<Vec<_>>" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseTurboMethodRequiresGenerics(t *testing.T) {
	tokens, _ := lexer.Tokenize("xs.collect")
	_, err := ParseTurboMethod(tokens[:len(tokens)-1])
	if err == nil || err.Code != diagnostics.ErrT004 {
		t.Fatalf("expected T004, got %v", err)
	}
	if !strings.Contains(err.Message, "`::<...>`") {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Token.Lexeme != "collect" {
		t.Errorf("error points at %q, want collect", err.Token.Lexeme)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestExpandErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		opts   Options
		code   diagnostics.ErrorCode
		substr string
	}{
		{"empty body", "", Options{}, diagnostics.ErrP001, "expected expression"},
		{"missing in", "x", Options{}, diagnostics.ErrT001, "`first`, `last`, `in`"},
		{"missing in after placement", "x last", Options{}, diagnostics.ErrT001, "expected `in`"},
		{"empty pipe", "x in", Options{}, diagnostics.ErrT002, "expected some functions as pipe"},
		{"empty map pipe", "Some x in", Options{}, diagnostics.ErrT002, "expected some functions as pipe"},
		{"empty cond pipe", "Cond x in", Options{}, diagnostics.ErrT002, "expected some functions as pipe"},
		{"empty alias pipe", "let a = x in", Options{}, diagnostics.ErrT002, "expected some functions as pipe"},
		{"empty alias map pipe", "let Ok(a) = x in", Options{}, diagnostics.ErrT002, "expected some functions as pipe"},
		{"empty pipe after comma", "x in ,", Options{}, diagnostics.ErrP001, "expected expression"},
		{"junk after step", "x in f g", Options{}, diagnostics.ErrT001, "expected `,`, found `g`"},
		{"missing fat arrow", "Cond x in c f", Options{}, diagnostics.ErrT001, "expected `=>`"},
		{"pattern needs parens", "let Some a = x in f", Options{}, diagnostics.ErrT001, "expected `(`"},
		{"alias not ident", "let 1 = x in f", Options{}, diagnostics.ErrT001, "expected identifier"},
		{"let without assign", "let a x in f", Options{}, diagnostics.ErrT001, "expected `=`"},
		{"strict placement", "let a = x last in f", Options{StrictPlacement: true}, diagnostics.ErrT005, "`last`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectExpandError(t, tt.body, tt.opts, tt.code, tt.substr)
		})
	}
}

func TestErrorPositionsAreBodyRelative(t *testing.T) {
	_, err := expandSource(t, "x in f g", Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Token.Offset != 7 || err.Token.Line != 1 || err.Token.Column != 8 {
		t.Errorf("error at offset %d (%d:%d), want 7 (1:8)", err.Token.Offset, err.Token.Line, err.Token.Column)
	}
}

// ---------------------------------------------------------------------------
// Round trip: every expansion is itself a well-formed expression.
// ---------------------------------------------------------------------------

func TestExpansionsReparse(t *testing.T) {
	bodies := []string{
		"x in f, g(1), h",
		"a + b last in f(1), |v| v * 2",
		"Some a + b in f, g",
		"let Some(a) = x in f, g(a, 1)",
		"Cond x in S { v: 1 } == x => f, d => g",
		"let CondClone(a) = x in c => f, d => g(a, 1)",
		"x in it.collect::<Vec<_>>, if c { f } else { g }",
	}
	for _, body := range bodies {
		out, err := expandSource(t, body, Options{})
		if err != nil {
			t.Fatalf("thread!(%s): %v", body, err)
		}
		tokens, errs := lexer.Tokenize(out)
		if len(errs) > 0 {
			t.Fatalf("relexing %s: %v", out, errs[0])
		}
		expr, perr := parser.ParseFull(tokens)
		if perr != nil {
			t.Fatalf("reparsing %s: %v", out, perr)
		}
		if again := prettyprinter.Print(expr); again != out {
			t.Errorf("round trip changed the expansion\nfirst:  %s\nsecond: %s", out, again)
		}
	}
}
