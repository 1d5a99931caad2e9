package parser

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/token"
)

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	tok := p.Cur()
	return &ast.CallExpression{
		Token:     tok,
		Function:  function,
		Arguments: p.parseExpressionList(token.RPAREN, ")"),
	}
}

// parseDotExpression parses everything after a '.': field and tuple
// access, method calls with an optional turbofish, and .await.
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	dot := p.Next()

	switch p.Cur().Type {
	case token.AWAIT:
		p.Next()
		return &ast.AwaitExpression{Token: dot, Base: left}
	case token.INT:
		return &ast.FieldExpression{Token: dot, Base: left, Field: p.Next()}
	case token.IDENT:
	default:
		p.expected("identifier")
	}

	name := p.Next()
	var turbofish *ast.GenericArgs
	if p.CurIs(token.DOUBLE_COLON) {
		p.Next()
		if !p.CurIs(token.LT) {
			p.expected("`<`")
		}
		turbofish = &ast.GenericArgs{Turbofish: true, Tokens: p.parseAngle()}
	}

	if !p.CurIs(token.LPAREN) {
		if turbofish != nil {
			p.expected("`(`")
		}
		return &ast.FieldExpression{Token: dot, Base: left, Field: name}
	}

	return &ast.MethodCallExpression{
		Token:     dot,
		Receiver:  left,
		Method:    name,
		Turbofish: turbofish,
		Arguments: p.parseExpressionList(token.RPAREN, ")"),
	}
}

// parseClosureExpression parses `static? async? move? |params| body`
// and `|params| -> T { ... }`.
func (p *Parser) parseClosureExpression() ast.Expression {
	ce := &ast.ClosureExpression{}
	if p.CurIs(token.STATIC) {
		p.Next()
		ce.Static = true
	}
	if p.CurIs(token.ASYNC) {
		p.Next()
		ce.Async = true
	}
	if p.CurIs(token.MOVE) {
		p.Next()
		ce.Move = true
	}

	ce.Token = p.Cur()
	switch {
	case p.CurIs(token.OR):
		p.Next()
	case p.CurIs(token.PIPE):
		p.Next()
		for !p.CurIs(token.PIPE) {
			param := ast.ClosureParam{Pattern: p.parsePattern(token.COMMA, token.PIPE, token.COLON)}
			if p.CurIs(token.COLON) {
				p.Next()
				param.Type = p.parseType()
			}
			ce.Params = append(ce.Params, param)
			if p.CurIs(token.COMMA) {
				p.Next()
				continue
			}
			if !p.CurIs(token.PIPE) {
				p.expected("`,` or `|`")
			}
		}
		p.Next()
	default:
		p.expected("`|`")
	}

	if p.CurIs(token.ARROW) {
		p.Next()
		ce.ReturnType = p.parseType()
		ce.Body = p.parseBlock()
		return ce
	}
	ce.Body = p.parseExpression(LOWEST)
	return ce
}

// parseAsyncExpression dispatches between `async move? { ... }` and an
// async closure.
func (p *Parser) parseAsyncExpression() ast.Expression {
	n := 1
	if p.peekIs(1, token.MOVE) {
		n = 2
	}
	if !p.peekIs(n, token.LBRACE) {
		return p.parseClosureExpression()
	}
	expr := &ast.AsyncExpression{Token: p.Next()}
	if p.CurIs(token.MOVE) {
		p.Next()
		expr.Move = true
	}
	expr.Block = p.parseBlock()
	return expr
}
