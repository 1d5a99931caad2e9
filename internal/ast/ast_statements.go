package ast

import (
	"github.com/funvibe/thread/internal/token"
)

// LetStatement represents let pat: T = value else { ... };
type LetStatement struct {
	Token   token.Token // The 'let' token
	Pattern Tokens
	Type    Tokens
	Value   Expression       // may be nil
	Else    *BlockExpression // let-else divergence block, may be nil
}

func (ls *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

// NewLet builds `let name = value;`.
func NewLet(name string, value Expression) *LetStatement {
	return &LetStatement{
		Token:   Punct(token.LET, "let"),
		Pattern: Tokens{Ident(name)},
		Value:   value,
	}
}

// ExpressionStatement is an expression evaluated for its effect. Semicolon
// is false only for block-like expressions such as `if c { a() }`.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
	Semicolon  bool
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
