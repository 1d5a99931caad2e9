package prettyprinter

import (
	"testing"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/lexer"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	tokens, errs := lexer.Tokenize(input)
	if len(errs) > 0 {
		t.Fatalf("lexing %q: %v", input, errs[0])
	}
	expr, err := parser.ParseFull(tokens)
	if err != nil {
		t.Fatalf("parsing %q: %v", input, err)
	}
	return expr
}

// Canonical renderings print back unchanged.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"f(x, y)",
		"a.b::<T>(1).c",
		"Vec::<u8>::new()",
		"(a + b) * c",
		"a - (b - c)",
		"a = b = c",
		"x += 1",
		"-x.abs()",
		"(-x).abs()",
		"&mut v",
		"*r as u64",
		"|a, b| a + b",
		"move || x",
		"|v: u8| -> u8 { v }",
		"{ let a = 1; a }",
		"{ let Some(v) = o else { return }; v }",
		"if a { b } else if c { d } else { e }",
		"if let Some(v) = o && v > 0 { v } else { 0 }",
		"match x { Some(v) if v > 0 => v, _ => 0 }",
		"S { a: 1, ..r }",
		"S {}",
		"(a,)",
		"()",
		"[0; 4]",
		"[1, 2, 3]",
		"a..b",
		"..=b",
		"(a.f)(x)",
		"{ f }(x)",
		"vec![1, 2]",
		"#[inline] f(x)",
		"x?.y.await",
		"t.0",
		"'outer: loop { break 'outer 1; }",
		"for (k, v) in map { f(k, v); }",
		"while n > 0 { n -= 1; }",
		"async move { x.await }",
		"unsafe { f() }",
		"return a + b",
		"<T as Trait>::f(x)",
	}
	for _, input := range inputs {
		if got := Print(parseExpr(t, input)); got != input {
			t.Errorf("round trip changed %q into %q", input, got)
		}
	}
}

func TestPrecedenceParens(t *testing.T) {
	sum := &ast.BinaryExpression{Token: ast.Punct(token.PLUS, "+"), Left: ast.NewIdent("a"), Operator: "+", Right: ast.NewIdent("b")}
	call := &ast.MethodCallExpression{
		Token:    ast.Punct(token.DOT, "."),
		Receiver: sum,
		Method:   ast.Ident("map"),
	}
	if got := Print(call); got != "(a + b).map()" {
		t.Errorf("got %s", got)
	}

	neg := &ast.UnaryExpression{Token: ast.Punct(token.MINUS, "-"), Operator: "-", Right: sum}
	if got := Print(neg); got != "-(a + b)" {
		t.Errorf("got %s", got)
	}
}

func TestFieldCalleeIsParenthesized(t *testing.T) {
	field := &ast.FieldExpression{Token: ast.Punct(token.DOT, "."), Base: ast.NewIdent("s"), Field: ast.Ident("handler")}
	call := &ast.CallExpression{Token: ast.Punct(token.LPAREN, "("), Function: field, Arguments: []ast.Expression{ast.NewIdent("x")}}
	if got := Print(call); got != "(s.handler)(x)" {
		t.Errorf("got %s", got)
	}
}

func TestStatementStartingWithBlock(t *testing.T) {
	callee := &ast.BlockExpression{Token: ast.Punct(token.LBRACE, "{"), Tail: ast.NewIdent("f")}
	call := &ast.CallExpression{Token: ast.Punct(token.LPAREN, "("), Function: callee, Arguments: []ast.Expression{ast.NewIdent("x")}}
	block := &ast.BlockExpression{
		Token:      ast.Punct(token.LBRACE, "{"),
		Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call, Semicolon: true}},
		Tail:       call,
	}
	want := "{ ({ f }(x)); ({ f }(x)) }"
	if got := Print(block); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if reparsed := Print(parseExpr(t, want)); reparsed != want {
		t.Errorf("reparse changed %s into %s", want, reparsed)
	}
}

func TestStructInCondition(t *testing.T) {
	lit := &ast.StructExpression{
		Token:  ast.Punct(token.LBRACE, "{"),
		Path:   &ast.Path{Segments: []ast.PathSegment{{Name: ast.Ident("P")}}},
		Fields: []ast.FieldValue{{Name: ast.Ident("x"), Value: ast.NewIdent("y")}},
	}
	cond := &ast.BinaryExpression{Left: ast.NewIdent("p"), Operator: "==", Right: lit}
	ife := &ast.IfExpression{
		Token:       ast.Punct(token.IF, "if"),
		Condition:   cond,
		Consequence: &ast.BlockExpression{Tail: ast.NewIdent("a")},
	}
	want := "if p == (P { x: y }) { a }"
	if got := Print(ife); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestPrettyLayout(t *testing.T) {
	expr := parseExpr(t, "{ let a = x; let a = { if c { f(a) } else { a } }; a }")
	want := `{
    let a = x;
    let a = {
        if c {
            f(a)
        } else {
            a
        }
    };
    a
}`
	if got := PrintPretty(expr); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyMatch(t *testing.T) {
	expr := parseExpr(t, "match x { A => 1, B => 2 }")
	want := "match x {\n    A => 1,\n    B => 2,\n}"
	if got := PrintPretty(expr); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestIndent(t *testing.T) {
	if got := Indent("{\n    a\n}", "  "); got != "{\n      a\n  }" {
		t.Errorf("got %q", got)
	}
	if got := Indent("a", "  "); got != "a" {
		t.Errorf("got %q", got)
	}
}
