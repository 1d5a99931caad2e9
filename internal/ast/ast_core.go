package ast

import (
	"strings"

	"github.com/funvibe/thread/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement inside a block.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
// The set of implementations is closed: every consumer switches over all of
// them, so a new variant must be added to each of those switches.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Tokens is a verbatim run of source tokens. Types, patterns and macro
// bodies are kept this way: nothing in the rewrite looks inside them.
type Tokens []token.Token

// String joins the run, keeping a space wherever the source had one.
func (ts Tokens) String() string {
	var b strings.Builder
	for i, t := range ts {
		if i > 0 && t.SpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(t.Lexeme)
	}
	return b.String()
}

// Attribute is an outer attribute such as #[inline]. Tokens holds the whole
// run including the leading '#'.
type Attribute struct {
	Token  token.Token // The '#' token
	Tokens Tokens
}

// GenericArgs is an angle-bracketed argument list, including the brackets.
// Turbofish is set when it was introduced by '::' in expression position.
type GenericArgs struct {
	Turbofish bool
	Tokens    Tokens // from '<' through '>'
}

// PathSegment is one ident of a path with its optional generic arguments.
type PathSegment struct {
	Name     token.Token
	Generics *GenericArgs
}

// Path is a possibly qualified path: <T as Trait>::a::b::<X>.
type Path struct {
	QSelf    Tokens // from '<' through '>' of a qualified path, nil otherwise
	Global   bool   // leading '::'
	Segments []PathSegment
}

// IsIdent reports whether the path is a single bare identifier.
func (p *Path) IsIdent() bool {
	return p.QSelf == nil && !p.Global && len(p.Segments) == 1 && p.Segments[0].Generics == nil
}

// Ident builds a synthetic identifier token.
func Ident(name string) token.Token {
	return token.Token{Type: token.IDENT, Lexeme: name, Literal: name}
}

// Punct builds a synthetic punctuation or keyword token.
func Punct(typ token.TokenType, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Literal: lexeme}
}

// NewIdent builds a path expression holding a single identifier.
func NewIdent(name string) *PathExpression {
	tok := Ident(name)
	return &PathExpression{Token: tok, Path: &Path{Segments: []PathSegment{{Name: tok}}}}
}

// IsIdent reports whether e is a bare identifier path with the given name.
func IsIdent(e Expression, name string) bool {
	pe, ok := e.(*PathExpression)
	return ok && pe.Path.IsIdent() && pe.Path.Segments[0].Name.Lexeme == name
}
