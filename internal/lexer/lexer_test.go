package lexer

import (
	"testing"

	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `let Some(a) = x.parse::<u8>()? in f(a, 'c', "s\"q"), |v| v >> 1 // done`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LET, "let"},
		{token.IDENT, "Some"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.RPAREN, ")"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.DOT, "."},
		{token.IDENT, "parse"},
		{token.DOUBLE_COLON, "::"},
		{token.LT, "<"},
		{token.IDENT, "u8"},
		{token.GT, ">"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.QUESTION, "?"},
		{token.IN, "in"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.CHAR, "'c'"},
		{token.COMMA, ","},
		{token.STRING, `"s\"q"`},
		{token.RPAREN, ")"},
		{token.COMMA, ","},
		{token.PIPE, "|"},
		{token.IDENT, "v"},
		{token.PIPE, "|"},
		{token.IDENT, "v"},
		{token.GT, ">"},
		{token.GT, ">"},
		{token.INT, "1"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestPositions(t *testing.T) {
	tokens, errs := Tokenize("x in\n  f(y)")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	f := tokens[2]
	if f.Lexeme != "f" || f.Line != 2 || f.Column != 3 || f.Offset != 7 || f.End != 8 {
		t.Errorf("f at %d:%d [%d,%d), want 2:3 [7,8)", f.Line, f.Column, f.Offset, f.End)
	}
	if !f.SpaceBefore {
		t.Error("f should record the whitespace before it")
	}
	if paren := tokens[3]; paren.SpaceBefore {
		t.Error("( follows f directly")
	}
	if eof := tokens[len(tokens)-1]; eof.Type != token.EOF || eof.Offset != 11 {
		t.Errorf("EOF at offset %d, want 11", eof.Offset)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
	}{
		{"42", token.INT},
		{"0xFFu8", token.INT},
		{"1_000i64", token.INT},
		{"3.14", token.FLOAT},
		{"1e10", token.FLOAT},
		{"2f32", token.FLOAT},
		{`r#"raw "quoted""#`, token.RAWSTRING},
		{`b"bytes"`, token.BYTESTR},
		{`b'x'`, token.BYTE},
		{`'\n'`, token.CHAR},
		{"'a", token.LIFETIME},
		{"r#match", token.IDENT},
		{"true", token.TRUE},
	}
	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Errorf("%s: unexpected errors: %v", tt.input, errs)
			continue
		}
		if len(tokens) != 2 {
			t.Errorf("%s: expected one token, got %d", tt.input, len(tokens)-1)
			continue
		}
		if tokens[0].Type != tt.typ || tokens[0].Lexeme != tt.input {
			t.Errorf("%s: got %s %q", tt.input, tokens[0].Type, tokens[0].Lexeme)
		}
	}
}

func TestTupleFieldsAreNotFloats(t *testing.T) {
	tokens, _ := Tokenize("t.0.1")
	want := []token.TokenType{token.IDENT, token.DOT, token.INT, token.DOT, token.INT, token.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token %d: got %s, want %s", i, tokens[i].Type, typ)
		}
	}
}

func TestComments(t *testing.T) {
	tokens, errs := Tokenize("a /* outer /* inner */ still */ b // tail")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(tokens) != 3 || tokens[0].Lexeme != "a" || tokens[1].Lexeme != "b" {
		t.Fatalf("unexpected tokens %v", tokens)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{`"open`, diagnostics.ErrL002},
		{"/* open", diagnostics.ErrL002},
		{"a ` b", diagnostics.ErrL001},
	}
	for _, tt := range tests {
		_, errs := Tokenize(tt.input)
		if len(errs) != 1 {
			t.Errorf("%q: expected one error, got %d", tt.input, len(errs))
			continue
		}
		if errs[0].Code != tt.code {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.code, errs[0].Code)
		}
	}
}
