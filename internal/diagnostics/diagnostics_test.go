package diagnostics

import (
	"errors"
	"testing"

	"github.com/funvibe/thread/internal/token"
)

func TestErrorFormat(t *testing.T) {
	tok := token.Token{Type: token.IDENT, Lexeme: "f", Line: 2, Column: 7}
	err := NewError(ErrT001, tok, "boom")
	if got := err.Error(); got != "2:7: [T001] boom" {
		t.Errorf("got %q", got)
	}
	err.WithFile("main.rs")
	if got := err.Error(); got != "main.rs:2:7: [T001] boom" {
		t.Errorf("got %q", got)
	}
	err.WithFile("other.rs")
	if err.File != "main.rs" {
		t.Error("WithFile must not replace a file already set")
	}
}

func TestNewExpectedError(t *testing.T) {
	tests := []struct {
		tok      token.Token
		expected []string
		want     string
	}{
		{token.Token{Type: token.IDENT, Lexeme: "f"}, []string{"in"}, "expected `in`, found `f`"},
		{token.Token{Type: token.EOF}, []string{"first", "last", "in"}, "expected one of `first`, `last`, `in`, found end of input"},
	}
	for _, tt := range tests {
		err := NewExpectedError(ErrT001, tt.tok, tt.expected...)
		if err.Message != tt.want {
			t.Errorf("got %q, want %q", err.Message, tt.want)
		}
		if len(err.Expected) != len(tt.expected) {
			t.Errorf("expected alternatives %v", err.Expected)
		}
	}
}

func TestIs(t *testing.T) {
	var err error = NewError(ErrX002, token.Token{}, "too deep")
	if !errors.Is(err, &DiagnosticError{Code: ErrX002}) {
		t.Error("errors.Is should match on the code")
	}
	if errors.Is(err, &DiagnosticError{Code: ErrX001}) {
		t.Error("a different code must not match")
	}
	if errors.Is(err, &DiagnosticError{Code: ErrX002, Message: "other"}) {
		t.Error("a different message must not match")
	}
}

func TestJoin(t *testing.T) {
	errs := []*DiagnosticError{
		NewError(ErrL001, token.Token{Line: 1, Column: 1}, "a"),
		NewError(ErrL002, token.Token{Line: 3, Column: 2}, "b"),
	}
	if got := Join(errs); got != "1:1: [L001] a\n3:2: [L002] b\n" {
		t.Errorf("got %q", got)
	}
}
