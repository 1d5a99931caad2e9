package parser

import (
	"slices"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/token"
)

// Types and patterns are recognised structurally but kept as verbatim
// token runs: the rewrite only ever moves them around.

func (p *Parser) tokensFrom(mark int) ast.Tokens {
	return slices.Clone(p.tokens[mark:p.pos])
}

func (p *Parser) parseType() ast.Tokens {
	mark := p.Mark()
	p.skipType()
	return p.tokensFrom(mark)
}

func (p *Parser) skipType() {
	switch p.Cur().Type {
	case token.AMP, token.AND:
		p.Next()
		if p.CurIs(token.LIFETIME) {
			p.Next()
		}
		if p.CurIs(token.MUT) {
			p.Next()
		}
		p.skipType()
	case token.ASTERISK:
		p.Next()
		if !p.CurIs(token.CONST) && !p.CurIs(token.MUT) {
			p.expected("`const` or `mut`")
		}
		p.Next()
		p.skipType()
	case token.LPAREN, token.LBRACKET:
		p.parseDelimited()
	case token.BANG, token.UNDERSCORE:
		p.Next()
	case token.UNSAFE, token.FN:
		if p.CurIs(token.UNSAFE) {
			p.Next()
		}
		p.expect(token.FN, "fn")
		if !p.CurIs(token.LPAREN) {
			p.expected("`(`")
		}
		p.parseDelimited()
		p.skipReturnType()
	case token.IMPL, token.DYN:
		p.Next()
		p.skipBounds()
	case token.FOR:
		p.Next()
		p.parseAngle()
		p.skipType()
	case token.LT:
		p.parseAngle()
		p.expect(token.DOUBLE_COLON, "::")
		p.skipTypePath()
	default:
		if !token.IsPathSegment(p.Cur().Type) && !p.CurIs(token.DOUBLE_COLON) {
			p.expected("type")
		}
		p.skipTypePath()
	}
}

// skipTypePath skips a path in type position, where generic arguments
// need no turbofish and Fn-style sugar `Fn(A) -> B` is allowed.
func (p *Parser) skipTypePath() {
	if p.CurIs(token.DOUBLE_COLON) {
		p.Next()
	}
	for {
		if !token.IsPathSegment(p.Cur().Type) {
			p.expected("identifier")
		}
		p.Next()
		switch {
		case p.CurIs(token.LT):
			p.parseAngle()
		case p.CurIs(token.DOUBLE_COLON) && p.peekIs(1, token.LT):
			p.Next()
			p.parseAngle()
		case p.CurIs(token.LPAREN):
			p.parseDelimited()
			p.skipReturnType()
		}
		if !p.CurIs(token.DOUBLE_COLON) {
			return
		}
		p.Next()
	}
}

func (p *Parser) skipReturnType() {
	if p.CurIs(token.ARROW) {
		p.Next()
		p.skipType()
	}
}

// skipBounds skips `A + B + 'a + ?Sized` after impl or dyn.
func (p *Parser) skipBounds() {
	for {
		switch p.Cur().Type {
		case token.LIFETIME:
			p.Next()
		case token.QUESTION:
			p.Next()
			p.skipTypePath()
		case token.LPAREN:
			p.parseDelimited()
		case token.FOR:
			p.Next()
			p.parseAngle()
			p.skipTypePath()
		default:
			p.skipTypePath()
		}
		if !p.CurIs(token.PLUS) {
			return
		}
		p.Next()
	}
}

// parseAngle consumes a `<...>` group and returns it including both
// brackets. Nested delimiters are skipped whole.
func (p *Parser) parseAngle() ast.Tokens {
	mark := p.Mark()
	p.expect(token.LT, "<")
	depth := 1
	for depth > 0 {
		switch p.Cur().Type {
		case token.EOF, token.RPAREN, token.RBRACKET, token.RBRACE, token.SEMICOLON:
			p.expected("`>`")
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			p.parseDelimited()
			continue
		case token.LT:
			depth++
		case token.SHL:
			depth += 2
		case token.GT:
			depth--
		}
		p.Next()
	}
	return p.tokensFrom(mark)
}

// parseDelimited consumes a balanced (), [] or {} group starting at the
// cursor and returns it including both delimiters.
func (p *Parser) parseDelimited() ast.Tokens {
	mark := p.Mark()
	if !isOpenDelimiter(p.Cur().Type) {
		p.expected("`(`, `[` or `{`")
	}

	var stack []token.TokenType
	for {
		switch cur := p.Cur(); cur.Type {
		case token.LPAREN:
			stack = append(stack, token.RPAREN)
		case token.LBRACKET:
			stack = append(stack, token.RBRACKET)
		case token.LBRACE:
			stack = append(stack, token.RBRACE)
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if want := stack[len(stack)-1]; cur.Type != want {
				p.expected("`" + string(want) + "`")
			}
			stack = stack[:len(stack)-1]
		case token.EOF:
			p.expected("`" + string(stack[len(stack)-1]) + "`")
		}
		p.Next()
		if len(stack) == 0 {
			return p.tokensFrom(mark)
		}
	}
}

// parsePattern consumes tokens up to the first of stop found outside any
// delimiter. The pattern must not be empty.
func (p *Parser) parsePattern(stop ...token.TokenType) ast.Tokens {
	mark := p.Mark()
	for !p.AtEnd() && !slices.Contains(stop, p.Cur().Type) {
		switch p.Cur().Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			p.parseDelimited()
			continue
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if p.Mark() == mark {
				p.expected("pattern")
			}
			return p.tokensFrom(mark)
		}
		p.Next()
	}
	if p.Mark() == mark {
		p.expected("pattern")
	}
	return p.tokensFrom(mark)
}
