package parser

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/token"
)

func (p *Parser) parseLiteral() ast.Expression {
	return &ast.Literal{Token: p.Next()}
}

// parsePathLike parses a path and whatever it heads: a macro invocation,
// a struct literal or the bare path.
func (p *Parser) parsePathLike() ast.Expression {
	first := p.Cur()
	path := p.parsePath()

	if p.CurIs(token.BANG) && isOpenDelimiter(p.PeekAt(1).Type) {
		bang := p.Next()
		delim := p.Cur().Type
		body := p.parseDelimited()
		return &ast.MacroExpression{
			Token:     bang,
			Path:      path,
			Delimiter: delim,
			Body:      body[1 : len(body)-1],
		}
	}

	if p.CurIs(token.LBRACE) && !p.noStruct && path.QSelf == nil {
		return p.parseStructExpression(path)
	}

	return &ast.PathExpression{Token: first, Path: path}
}

func (p *Parser) parsePath() *ast.Path {
	path := &ast.Path{}
	switch {
	case p.CurIs(token.LT):
		path.QSelf = p.parseAngle()
		p.expect(token.DOUBLE_COLON, "::")
	case p.CurIs(token.DOUBLE_COLON):
		p.Next()
		path.Global = true
	}

	for {
		if !token.IsPathSegment(p.Cur().Type) {
			p.expected("identifier")
		}
		path.Segments = append(path.Segments, ast.PathSegment{Name: p.Next()})
		if !p.CurIs(token.DOUBLE_COLON) {
			return path
		}
		if p.peekIs(1, token.LT) {
			p.Next()
			last := &path.Segments[len(path.Segments)-1]
			last.Generics = &ast.GenericArgs{Turbofish: true, Tokens: p.parseAngle()}
			if !p.CurIs(token.DOUBLE_COLON) {
				return path
			}
		}
		p.Next()
	}
}

func (p *Parser) parseStructExpression(path *ast.Path) ast.Expression {
	expr := &ast.StructExpression{Token: p.Next(), Path: path}
	restore := p.allowStruct()
	defer restore()

	for !p.CurIs(token.RBRACE) {
		if p.CurIs(token.DOT_DOT) {
			p.Next()
			expr.HasRest = true
			if !p.CurIs(token.RBRACE) {
				expr.Rest = p.parseExpression(LOWEST)
			}
			break
		}

		if !p.CurIs(token.IDENT) && !p.CurIs(token.INT) {
			p.expected("field name")
		}
		field := ast.FieldValue{Name: p.Next()}
		if p.CurIs(token.COLON) {
			p.Next()
			field.Value = p.parseExpression(LOWEST)
		}
		expr.Fields = append(expr.Fields, field)

		if !p.CurIs(token.COMMA) {
			break
		}
		p.Next()
	}
	p.expect(token.RBRACE, "}")
	return expr
}

// parseGroupedExpression parses (), (a), (a,) and (a, b).
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.Next()
	restore := p.allowStruct()
	defer restore()

	if p.CurIs(token.RPAREN) {
		p.Next()
		return &ast.TupleExpression{Token: tok, Elements: []ast.Expression{}}
	}

	first := p.parseExpression(LOWEST)
	if !p.CurIs(token.COMMA) {
		p.expect(token.RPAREN, ")")
		return &ast.ParenExpression{Token: tok, Inner: first}
	}

	elements := []ast.Expression{first}
	for p.CurIs(token.COMMA) {
		p.Next()
		if p.CurIs(token.RPAREN) {
			break
		}
		elements = append(elements, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN, ")")
	return &ast.TupleExpression{Token: tok, Elements: elements}
}

// parseArrayExpression parses [a, b] and [value; count].
func (p *Parser) parseArrayExpression() ast.Expression {
	tok := p.Cur()
	if p.peekIs(1, token.RBRACKET) {
		p.Next()
		p.Next()
		return &ast.ArrayExpression{Token: tok, Elements: []ast.Expression{}}
	}

	p.Next()
	restore := p.allowStruct()
	defer restore()
	first := p.parseExpression(LOWEST)
	if p.CurIs(token.SEMICOLON) {
		p.Next()
		count := p.parseExpression(LOWEST)
		p.expect(token.RBRACKET, "]")
		return &ast.RepeatExpression{Token: tok, Value: first, Count: count}
	}

	elements := []ast.Expression{first}
	for p.CurIs(token.COMMA) {
		p.Next()
		if p.CurIs(token.RBRACKET) {
			break
		}
		elements = append(elements, p.parseExpression(LOWEST))
	}
	if !p.CurIs(token.RBRACKET) {
		p.expected("`,` or `]`")
	}
	p.Next()
	return &ast.ArrayExpression{Token: tok, Elements: elements}
}

// parseExpressionList parses a comma separated list after the opening
// delimiter at the cursor, through the closing one.
func (p *Parser) parseExpressionList(end token.TokenType, lexeme string) []ast.Expression {
	p.Next()
	restore := p.allowStruct()
	defer restore()

	list := []ast.Expression{}
	for !p.CurIs(end) {
		list = append(list, p.parseExpression(LOWEST))
		if p.CurIs(token.COMMA) {
			p.Next()
			continue
		}
		if !p.CurIs(end) {
			p.expected("`,` or `" + lexeme + "`")
		}
	}
	p.Next()
	return list
}

func isOpenDelimiter(t token.TokenType) bool {
	return t == token.LPAREN || t == token.LBRACKET || t == token.LBRACE
}
