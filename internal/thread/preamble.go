package thread

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

// AliasOrPlacement says how a step receives the threaded value: by
// position (First or Last) or through a named rebinding (Alias).
type AliasOrPlacement interface {
	aliasOrPlacement()
	String() string
}

// Alias is the name introduced by `let a = x in ...`.
type Alias struct {
	Name token.Token
}

func (Alias) aliasOrPlacement()       {}
func (a Alias) String() string        { return a.Name.Lexeme }
func (a Alias) ident() ast.Expression { return ast.NewIdent(a.Name.Lexeme) }

// ThreadMacro is the parsed preamble: everything before `in`.
type ThreadMacro struct {
	Pattern          Pattern // nil for plain threading
	GivenInitialExpr ast.Expression
	AliasOrPlacement AliasOrPlacement

	// explicit is set once a placement keyword was consumed. A missing `in`
	// then no longer suggests one.
	explicit bool
}

// alias returns the alias and true when the preamble used the let form.
func (m *ThreadMacro) alias() (Alias, bool) {
	a, ok := m.AliasOrPlacement.(Alias)
	return a, ok
}

// ParsePreamble parses either preamble form:
//
//	[pattern] expr [first|last]
//	let [pattern] (alias) = expr
//	let alias = expr
//
// and stops in front of `in`. With strict set a placement after a let
// alias is an error; otherwise it is parsed and dropped.
func ParsePreamble(p *parser.Parser, strict bool) (*ThreadMacro, *diagnostics.DiagnosticError) {
	if p.CurIs(token.LET) {
		return parseLetPreamble(p, strict)
	}

	m := &ThreadMacro{AliasOrPlacement: First}
	if pat, err := ParsePattern(p); err == nil {
		m.Pattern = pat
	}

	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	m.GivenInitialExpr = init

	if pl, err := ParsePlacement(p); err == nil {
		m.AliasOrPlacement = pl
		m.explicit = true
	}
	return m, nil
}

func parseLetPreamble(p *parser.Parser, strict bool) (*ThreadMacro, *diagnostics.DiagnosticError) {
	p.Next() // let
	m := &ThreadMacro{explicit: true}

	if pat, err := ParsePattern(p); err == nil {
		m.Pattern = pat
	}

	var (
		name token.Token
		err  *diagnostics.DiagnosticError
	)
	switch {
	case p.CurIs(token.LPAREN):
		name, err = parseParenAlias(p)
	case m.Pattern != nil:
		err = diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), "(")
	default:
		name, err = parseAliasIdent(p)
	}
	if err != nil {
		return nil, err
	}
	m.AliasOrPlacement = Alias{Name: name}

	if !p.CurIs(token.ASSIGN) {
		return nil, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), "=")
	}
	p.Next()

	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	m.GivenInitialExpr = init

	at := p.Cur()
	if _, err := ParsePlacement(p); err == nil && strict {
		return nil, diagnostics.NewError(diagnostics.ErrT005, at,
			"placement `"+at.Lexeme+"` has no effect with a `let` alias")
	}
	return m, nil
}

func parseParenAlias(p *parser.Parser) (token.Token, *diagnostics.DiagnosticError) {
	p.Next() // (
	name, err := parseAliasIdent(p)
	if err != nil {
		return name, err
	}
	if !p.CurIs(token.RPAREN) {
		return name, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), ")")
	}
	p.Next()
	return name, nil
}

func parseAliasIdent(p *parser.Parser) (token.Token, *diagnostics.DiagnosticError) {
	cur := p.Cur()
	if cur.Type != token.IDENT {
		return cur, diagnostics.NewError(diagnostics.ErrT001, cur,
			"expected identifier, found "+diagnostics.Describe(cur))
	}
	return p.Next(), nil
}

// expectIn consumes the `in` separating the preamble from the steps.
func (m *ThreadMacro) expectIn(p *parser.Parser) *diagnostics.DiagnosticError {
	if p.CurIs(token.IN) {
		p.Next()
		return nil
	}
	if m.explicit {
		return diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), "in")
	}
	return diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(),
		append(keywordTexts(placementKeywords), "in")...)
}
