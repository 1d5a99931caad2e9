package parser

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.fail(diagnostics.NewError(
			diagnostics.ErrP003,
			p.Cur(),
			"expression too complex: recursion depth limit exceeded",
		))
	}

	prefix := p.prefixParseFns[p.Cur().Type]
	if prefix == nil {
		p.noPrefixParseFnError()
	}
	return p.parseInfix(prefix(), precedence)
}

// parseInfix keeps folding operators into left while they bind tighter
// than precedence.
func (p *Parser) parseInfix(left ast.Expression, precedence int) ast.Expression {
	for {
		_, _, prec := p.operator()
		if precedence >= prec {
			return left
		}
		infix := p.infixParseFns[p.Cur().Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
}

func (p *Parser) noPrefixParseFnError() {
	p.fail(diagnostics.NewError(
		diagnostics.ErrP001,
		p.Cur(),
		"expected expression, found "+diagnostics.Describe(p.Cur()),
	))
}

func (p *Parser) expected(what string) {
	p.fail(diagnostics.NewError(
		diagnostics.ErrP002,
		p.Cur(),
		"expected "+what+", found "+diagnostics.Describe(p.Cur()),
	))
}

// operator returns the operator at the cursor, how many tokens spell it
// and its precedence. The lexer never joins '>', so '>>', '>=' and '>>='
// are assembled here from adjacent tokens.
func (p *Parser) operator() (string, int, int) {
	cur := p.Cur()
	if cur.Type == token.GT {
		next := p.PeekAt(1)
		if next.Type == token.GT && token.Joined(cur, next) {
			if after := p.PeekAt(2); after.Type == token.ASSIGN && token.Joined(next, after) {
				return ">>=", 3, ASSIGN
			}
			return ">>", 2, SHIFT
		}
		if next.Type == token.ASSIGN && token.Joined(cur, next) {
			return ">=", 2, COMPARE
		}
	}
	prec, ok := precedences[cur.Type]
	if !ok {
		return "", 0, LOWEST
	}
	return cur.Lexeme, 1, prec
}

// consumeOperator consumes the operator at the cursor and returns one token
// spanning all of it.
func (p *Parser) consumeOperator() (token.Token, string, int) {
	op, width, prec := p.operator()
	tok := p.Next()
	for i := 1; i < width; i++ {
		tok.End = p.Next().End
	}
	tok.Lexeme, tok.Literal = op, op
	return tok, op, prec
}

// startsExpression reports whether the cursor can begin an operand. Used
// for the optional operands of return, break, yield and ranges.
func (p *Parser) startsExpression() bool {
	if p.noStruct && p.CurIs(token.LBRACE) {
		return false
	}
	_, ok := p.prefixParseFns[p.Cur().Type]
	return ok
}

// allowStruct lifts the struct-literal restriction inside delimiters and
// returns a func restoring the previous state.
func (p *Parser) allowStruct() func() {
	prev := p.noStruct
	p.noStruct = false
	return func() { p.noStruct = prev }
}

func (p *Parser) parseCondition() ast.Expression {
	prev := p.noStruct
	p.noStruct = true
	expr := p.parseExpression(LOWEST)
	p.noStruct = prev
	return expr
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.Next()
	return &ast.UnaryExpression{
		Token:    tok,
		Operator: tok.Lexeme,
		Right:    p.parseExpression(PREFIX),
	}
}

func (p *Parser) parseReferenceExpression() ast.Expression {
	tok := p.Next()
	ref := &ast.ReferenceExpression{Token: tok}
	if p.CurIs(token.MUT) {
		p.Next()
		ref.Mutable = true
	}
	ref.Value = p.parseExpression(PREFIX)
	if tok.Type == token.AND {
		// `&&x` is two borrows
		outer := tok
		outer.Type, outer.Lexeme, outer.Literal = token.AMP, "&", "&"
		ref.Token = outer
		return &ast.ReferenceExpression{Token: outer, Value: ref}
	}
	return ref
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok, op, prec := p.consumeOperator()
	if prec == ASSIGN {
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: p.parseExpression(ASSIGN - 1)}
	}
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: p.parseExpression(prec)}
}

// parseAssignExpression handles `=` and the compound assignments, all
// right-associative.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok, op, _ := p.consumeOperator()
	right := p.parseExpression(ASSIGN - 1)
	if op == "=" {
		return &ast.AssignExpression{Token: tok, Left: left, Right: right}
	}
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	tok := p.Next()
	expr := &ast.RangeExpression{Token: tok, Start: left, Inclusive: tok.Type == token.DOT_DOT_EQ}
	if p.startsExpression() {
		expr.End = p.parseExpression(RANGE)
	}
	return expr
}

func (p *Parser) parsePrefixRange() ast.Expression {
	tok := p.Next()
	expr := &ast.RangeExpression{Token: tok, Inclusive: tok.Type == token.DOT_DOT_EQ}
	if p.startsExpression() {
		expr.End = p.parseExpression(RANGE)
	}
	return expr
}

func (p *Parser) parseCastExpression(left ast.Expression) ast.Expression {
	tok := p.Next()
	return &ast.CastExpression{Token: tok, Value: left, Type: p.parseType()}
}

func (p *Parser) parseTryExpression(left ast.Expression) ast.Expression {
	return &ast.TryExpression{Token: p.Next(), Value: left}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.Next()
	restore := p.allowStruct()
	defer restore()
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET, "]")
	return &ast.IndexExpression{Token: tok, Base: left, Index: index}
}

func (p *Parser) parseInferExpression() ast.Expression {
	return &ast.InferExpression{Token: p.Next()}
}

// parseAttributedExpression parses outer attributes and the expression
// they annotate. Only calls and method calls carry attributes.
func (p *Parser) parseAttributedExpression() ast.Expression {
	start := p.Cur()
	attrs := p.parseAttributes()
	expr := p.parseExpression(PREFIX)
	switch e := expr.(type) {
	case *ast.CallExpression:
		e.Attrs = append(attrs, e.Attrs...)
	case *ast.MethodCallExpression:
		e.Attrs = append(attrs, e.Attrs...)
	default:
		p.fail(diagnostics.NewError(diagnostics.ErrP001, start,
			"attributes are only supported on call and method call expressions"))
	}
	return expr
}

func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.CurIs(token.HASH) {
		hash := p.Next()
		if !p.CurIs(token.LBRACKET) {
			p.expected("`[`")
		}
		body := p.parseDelimited()
		attrs = append(attrs, ast.Attribute{
			Token:  hash,
			Tokens: append(ast.Tokens{hash}, body...),
		})
	}
	return attrs
}
