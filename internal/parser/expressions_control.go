package parser

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/token"
)

func (p *Parser) parseBlockExpression() ast.Expression {
	return p.parseBlock()
}

func (p *Parser) parseBlock() *ast.BlockExpression {
	block := &ast.BlockExpression{Token: p.expect(token.LBRACE, "{")}
	restore := p.allowStruct()
	defer restore()

	for !p.CurIs(token.RBRACE) {
		switch p.Cur().Type {
		case token.EOF:
			p.expected("`}`")
		case token.SEMICOLON:
			p.Next()
			continue
		case token.LET:
			block.Statements = append(block.Statements, p.parseLetStatement())
			continue
		}

		first := p.Cur()
		expr, blockLike := p.parseStatementExpression()
		switch {
		case p.CurIs(token.SEMICOLON):
			p.Next()
			block.Statements = append(block.Statements,
				&ast.ExpressionStatement{Token: first, Expression: expr, Semicolon: true})
		case p.CurIs(token.RBRACE):
			block.Tail = expr
		case blockLike:
			block.Statements = append(block.Statements,
				&ast.ExpressionStatement{Token: first, Expression: expr})
		default:
			p.expected("`;` or `}`")
		}
	}
	p.Next()
	return block
}

// parseStatementExpression parses an expression in statement position. A
// block-like expression there ends the statement unless a method call or
// `?` continues it.
func (p *Parser) parseStatementExpression() (ast.Expression, bool) {
	if !p.startsBlockLike() {
		return p.parseExpression(LOWEST), false
	}
	expr := p.prefixParseFns[p.Cur().Type]()
	if p.CurIs(token.DOT) || p.CurIs(token.QUESTION) {
		return p.parseInfix(expr, LOWEST), false
	}
	return expr, true
}

func (p *Parser) startsBlockLike() bool {
	switch p.Cur().Type {
	case token.LBRACE, token.IF, token.MATCH, token.WHILE, token.LOOP, token.FOR, token.UNSAFE:
		return true
	case token.LIFETIME:
		return p.peekIs(1, token.COLON)
	case token.CONST, token.TRY:
		return p.peekIs(1, token.LBRACE)
	case token.ASYNC:
		return p.peekIs(1, token.LBRACE) || (p.peekIs(1, token.MOVE) && p.peekIs(2, token.LBRACE))
	}
	return false
}

// StartsBlockLike reports whether tokens open with an expression that ends
// a statement by itself: a block, a control flow expression or a labeled,
// unsafe, const, try or async block.
func StartsBlockLike(tokens []token.Token) bool {
	return New(tokens).startsBlockLike()
}

// IsBlockLike reports whether expr is one of the expressions StartsBlockLike
// recognises, with nothing applied to it.
func IsBlockLike(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.BlockExpression, *ast.IfExpression, *ast.MatchExpression,
		*ast.WhileExpression, *ast.LoopExpression, *ast.ForExpression,
		*ast.UnsafeExpression, *ast.ConstExpression, *ast.TryBlockExpression,
		*ast.AsyncExpression:
		return true
	}
	return false
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.Next()}
	stmt.Pattern = p.parsePattern(token.COLON, token.ASSIGN, token.SEMICOLON)
	if p.CurIs(token.COLON) {
		p.Next()
		stmt.Type = p.parseType()
	}
	if p.CurIs(token.ASSIGN) {
		p.Next()
		stmt.Value = p.parseExpression(LOWEST)
		if p.CurIs(token.ELSE) {
			p.Next()
			stmt.Else = p.parseBlock()
		}
	}
	p.expect(token.SEMICOLON, ";")
	return stmt
}

// parseLetExpression parses `let PAT = value` inside a condition. The
// value binds tighter than && and ||.
func (p *Parser) parseLetExpression() ast.Expression {
	expr := &ast.LetExpression{Token: p.Next()}
	expr.Pattern = p.parsePattern(token.ASSIGN)
	p.expect(token.ASSIGN, "=")
	expr.Value = p.parseExpression(AND)
	return expr
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.Next()}
	expr.Condition = p.parseCondition()
	expr.Consequence = p.parseBlock()

	if !p.CurIs(token.ELSE) {
		return expr
	}
	p.Next()
	if p.CurIs(token.IF) {
		expr.Alternative = p.parseIfExpression()
	} else {
		expr.Alternative = p.parseBlock()
	}
	return expr
}

func (p *Parser) parseMatchExpression() ast.Expression {
	expr := &ast.MatchExpression{Token: p.Next()}
	expr.Subject = p.parseCondition()
	p.expect(token.LBRACE, "{")
	restore := p.allowStruct()
	defer restore()

	for !p.CurIs(token.RBRACE) {
		// attributes on arms have no effect on the rewrite
		p.parseAttributes()

		arm := ast.MatchArm{Pattern: p.parsePattern(token.FAT_ARROW, token.IF)}
		if p.CurIs(token.IF) {
			p.Next()
			arm.Guard = p.parseExpression(LOWEST)
		}
		p.expect(token.FAT_ARROW, "=>")

		body, blockLike := p.parseStatementExpression()
		arm.Body = body
		expr.Arms = append(expr.Arms, arm)

		if p.CurIs(token.COMMA) {
			p.Next()
			continue
		}
		if !blockLike && !p.CurIs(token.RBRACE) {
			p.expected("`,` or `}`")
		}
	}
	p.Next()
	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.Next()}
	expr.Condition = p.parseCondition()
	expr.Body = p.parseBlock()
	return expr
}

func (p *Parser) parseLoopExpression() ast.Expression {
	return &ast.LoopExpression{Token: p.Next(), Body: p.parseBlock()}
}

func (p *Parser) parseForExpression() ast.Expression {
	expr := &ast.ForExpression{Token: p.Next()}
	expr.Pattern = p.parsePattern(token.IN)
	p.expect(token.IN, "in")
	expr.Iterable = p.parseCondition()
	expr.Body = p.parseBlock()
	return expr
}

// parseLabeledExpression parses `'label: loop/while/for/{ ... }`.
func (p *Parser) parseLabeledExpression() ast.Expression {
	label := p.Next()
	p.expect(token.COLON, ":")

	switch p.Cur().Type {
	case token.LOOP:
		expr := p.parseLoopExpression().(*ast.LoopExpression)
		expr.Label = &label
		return expr
	case token.WHILE:
		expr := p.parseWhileExpression().(*ast.WhileExpression)
		expr.Label = &label
		return expr
	case token.FOR:
		expr := p.parseForExpression().(*ast.ForExpression)
		expr.Label = &label
		return expr
	case token.LBRACE:
		expr := p.parseBlock()
		expr.Label = &label
		return expr
	}
	p.expected("`loop`, `while`, `for` or a block after label")
	return nil
}

func (p *Parser) parseUnsafeExpression() ast.Expression {
	return &ast.UnsafeExpression{Token: p.Next(), Block: p.parseBlock()}
}

func (p *Parser) parseConstExpression() ast.Expression {
	return &ast.ConstExpression{Token: p.Next(), Block: p.parseBlock()}
}

func (p *Parser) parseTryBlockExpression() ast.Expression {
	return &ast.TryBlockExpression{Token: p.Next(), Block: p.parseBlock()}
}

func (p *Parser) parseReturnExpression() ast.Expression {
	expr := &ast.ReturnExpression{Token: p.Next()}
	if p.startsExpression() {
		expr.Value = p.parseExpression(LOWEST)
	}
	return expr
}

func (p *Parser) parseBreakExpression() ast.Expression {
	expr := &ast.BreakExpression{Token: p.Next()}
	if p.CurIs(token.LIFETIME) {
		label := p.Next()
		expr.Label = &label
	}
	if p.startsExpression() {
		expr.Value = p.parseExpression(LOWEST)
	}
	return expr
}

func (p *Parser) parseContinueExpression() ast.Expression {
	expr := &ast.ContinueExpression{Token: p.Next()}
	if p.CurIs(token.LIFETIME) {
		label := p.Next()
		expr.Label = &label
	}
	return expr
}

func (p *Parser) parseYieldExpression() ast.Expression {
	expr := &ast.YieldExpression{Token: p.Next()}
	if p.startsExpression() {
		expr.Value = p.parseExpression(LOWEST)
	}
	return expr
}
