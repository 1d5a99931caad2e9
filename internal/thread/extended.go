package thread

import (
	"slices"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/prettyprinter"
	"github.com/funvibe/thread/internal/token"
)

// ExtendedExpr is a pipeline step: any host expression, or a method
// reference with explicit generic arguments and no call parentheses,
// e.g. `.collect::<Vec<_>>` written as `iter.collect::<Vec<_>>`.
type ExtendedExpr interface {
	extendedExpr()
}

// HostExpr is a step that parsed as an ordinary expression.
type HostExpr struct {
	ast.Expression
}

func (HostExpr) extendedExpr() {}

// TurboMethod is `receiver.method::<T>` without an argument list.
type TurboMethod struct {
	Attrs     []ast.Attribute
	Receiver  ast.Expression
	Dot       token.Token
	Method    token.Token
	Turbofish *ast.GenericArgs
}

func (*TurboMethod) extendedExpr() {}

func (tm *TurboMethod) String() string {
	call := &ast.MethodCallExpression{
		Token:     tm.Dot,
		Attrs:     tm.Attrs,
		Receiver:  tm.Receiver,
		Method:    tm.Method,
		Turbofish: tm.Turbofish,
	}
	s := prettyprinter.Print(call)
	return s[:len(s)-len("()")]
}

// ParseTurboMethod parses tokens as exactly `receiver.method::<T>`. A
// method reference without generic arguments is rejected with T004.
func ParseTurboMethod(tokens []token.Token) (*TurboMethod, *diagnostics.DiagnosticError) {
	if len(tokens) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrT004, token.Token{Type: token.EOF},
			"expected a method reference, found end of input")
	}

	// Close the reference into a call so the host grammar accepts it.
	last := tokens[len(tokens)-1]
	call := slices.Clone(tokens)
	for _, t := range []token.TokenType{token.LPAREN, token.RPAREN} {
		tok := ast.Punct(t, string(t))
		tok.Line, tok.Column = last.Line, last.Column+len(last.Lexeme)
		tok.Offset, tok.End = last.End, last.End
		call = append(call, tok)
	}

	expr, err := parser.ParseFull(call)
	if err != nil {
		return nil, err
	}
	mc, ok := expr.(*ast.MethodCallExpression)
	if !ok || len(mc.Arguments) > 0 {
		return nil, diagnostics.NewError(diagnostics.ErrT004, tokens[0],
			"expected a method reference `receiver.method::<...>`")
	}
	if mc.Turbofish == nil {
		return nil, diagnostics.NewError(diagnostics.ErrT004, mc.Method,
			"expected `::<...>` after method name")
	}
	return &TurboMethod{
		Attrs:     mc.Attrs,
		Receiver:  mc.Receiver,
		Dot:       mc.Token,
		Method:    mc.Method,
		Turbofish: mc.Turbofish,
	}, nil
}

// ParseExtended parses one step. The host grammar is tried first and
// must end at a `,` or the end of input. Otherwise every prefix ending
// at a top-level comma is tried as a TurboMethod. When nothing fits, the
// host grammar's error is reported.
func ParseExtended(p *parser.Parser) (ExtendedExpr, *diagnostics.DiagnosticError) {
	start := p.Mark()
	expr, err := p.ParseExpression()
	if err == nil && atStepEnd(p) {
		return HostExpr{expr}, nil
	}
	stop := p.Mark()
	p.Reset(start)

	for _, n := range stepEnds(p.Remaining()) {
		tm, terr := ParseTurboMethod(p.Remaining()[:n])
		if terr != nil {
			continue
		}
		for range n {
			p.Next()
		}
		return tm, nil
	}

	if err != nil {
		return nil, err
	}
	p.Reset(stop)
	return nil, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), ",")
}

func atStepEnd(p *parser.Parser) bool {
	return p.AtEnd() || p.CurIs(token.COMMA)
}

// stepEnds returns the lengths of every prefix of tokens that ends just
// before a comma outside any delimiter, and finally len(tokens).
func stepEnds(tokens []token.Token) []int {
	var ends []int
	depth := 0
	for i, tok := range tokens {
		switch tok.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		case token.COMMA:
			if depth == 0 && i > 0 {
				ends = append(ends, i)
			}
		}
	}
	return append(ends, len(tokens))
}
