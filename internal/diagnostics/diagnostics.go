package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/thread/internal/token"
)

// ErrorCode identifies a class of diagnostic. The leading letter names the
// stage that raised it: L lexer, P host expression parser, T thread grammar,
// X source expander.
type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated literal or comment

	// Host expression parser
	ErrP001 ErrorCode = "P001" // unexpected token, expected an expression
	ErrP002 ErrorCode = "P002" // expected a specific token
	ErrP003 ErrorCode = "P003" // recursion depth exceeded
	ErrP004 ErrorCode = "P004" // trailing tokens after a complete expression

	// Thread grammar
	ErrT001 ErrorCode = "T001" // grammar mismatch: keyword, separator or bracket
	ErrT002 ErrorCode = "T002" // empty instruction list
	ErrT004 ErrorCode = "T004" // malformed turbofish method reference
	ErrT005 ErrorCode = "T005" // placement keyword with an alias (strict mode)

	// Source expander
	ErrX001 ErrorCode = "X001" // unterminated macro invocation
	ErrX002 ErrorCode = "X002" // nested expansion limit exceeded
)

// DiagnosticError is a located, unrecoverable error.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Message  string
	Expected []string // for "expected one of" mismatches
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// NewExpectedError builds a grammar mismatch listing every alternative that
// would have been accepted at tok.
func NewExpectedError(code ErrorCode, tok token.Token, expected ...string) *DiagnosticError {
	quoted := make([]string, len(expected))
	for i, e := range expected {
		quoted[i] = "`" + e + "`"
	}
	var msg string
	if len(quoted) == 1 {
		msg = "expected " + quoted[0]
	} else {
		msg = "expected one of " + strings.Join(quoted, ", ")
	}
	msg += ", found " + Describe(tok)
	return &DiagnosticError{Code: code, Token: tok, Message: msg, Expected: expected}
}

// Describe renders tok for "found ..." messages.
func Describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return "`" + tok.Lexeme + "`"
}

func (e *DiagnosticError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, e.Message)
}

// Is lets errors.Is match on the code alone.
func (e *DiagnosticError) Is(target error) bool {
	t, ok := target.(*DiagnosticError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// WithFile returns e after setting its file when it has none yet.
func (e *DiagnosticError) WithFile(file string) *DiagnosticError {
	if e.File == "" {
		e.File = file
	}
	return e
}

// Join renders a list of diagnostics one per line.
func Join(errs []*DiagnosticError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
