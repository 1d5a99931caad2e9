package parser

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
)

// MaxRecursionDepth bounds nested expression parsing.
const MaxRecursionDepth = 512

const (
	_ int = iota
	LOWEST
	JUMP    // closures, return, break, yield: extend as far right as possible
	ASSIGN  // = += -= ...
	RANGE   // .. ..=
	OR      // ||
	AND     // &&
	COMPARE // == != < > <= >=
	BITOR   // |
	BITXOR  // ^
	BITAND  // &
	SHIFT   // << >>
	SUM     // + -
	PRODUCT // * / %
	CAST    // as
	PREFIX  // -x !x *x &x
	POSTFIX // f(x) a[i] a.b x? x.await
	PRIMARY
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.PERCENT_ASSIGN:  ASSIGN,
	token.CARET_ASSIGN:    ASSIGN,
	token.AMP_ASSIGN:      ASSIGN,
	token.PIPE_ASSIGN:     ASSIGN,
	token.SHL_ASSIGN:      ASSIGN,
	token.DOT_DOT:         RANGE,
	token.DOT_DOT_EQ:      RANGE,
	token.OR:              OR,
	token.AND:             AND,
	token.EQ:              COMPARE,
	token.NOT_EQ:          COMPARE,
	token.LT:              COMPARE,
	token.GT:              COMPARE,
	token.LT_EQ:           COMPARE,
	token.PIPE:            BITOR,
	token.CARET:           BITXOR,
	token.AMP:             BITAND,
	token.SHL:             SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.AS:              CAST,
	token.LPAREN:          POSTFIX,
	token.LBRACKET:        POSTFIX,
	token.DOT:             POSTFIX,
	token.QUESTION:        POSTFIX,
}

// OperatorPrecedence returns the binding power of a binary or compound
// assignment operator spelled op, or LOWEST when op is unknown.
func OperatorPrecedence(op string) int {
	switch op {
	case ">>":
		return SHIFT
	case ">=":
		return COMPARE
	case ">>=":
		return ASSIGN
	}
	if prec, ok := precedences[token.TokenType(op)]; ok {
		return prec
	}
	return LOWEST
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// bailout unwinds the parser on the first error.
type bailout struct{}

// Parser is a Pratt parser over a lexed token slice. The cursor always
// points at the next unconsumed token, so Mark and Reset give callers
// cheap backtracking.
type Parser struct {
	tokens []token.Token
	pos    int
	depth  int

	// noStruct forbids `Path { ... }` struct literals, as in the
	// condition of an if or while.
	noStruct bool

	err *diagnostics.DiagnosticError

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a parser over tokens. A trailing EOF is appended when the
// slice does not already end with one.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Column = last.Line, last.Column+len(last.Lexeme)
			eof.Offset, eof.End = last.End, last.End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	p := &Parser{tokens: tokens}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	for _, t := range []token.TokenType{
		token.IDENT, token.SELF, token.SELF_TYPE, token.SUPER, token.CRATE,
		token.DOUBLE_COLON, token.LT,
	} {
		p.registerPrefix(t, p.parsePathLike)
	}
	for _, t := range []token.TokenType{
		token.INT, token.FLOAT, token.STRING, token.RAWSTRING, token.BYTESTR,
		token.CHAR, token.BYTE, token.TRUE, token.FALSE,
	} {
		p.registerPrefix(t, p.parseLiteral)
	}
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.ASTERISK, p.parseUnaryExpression)
	p.registerPrefix(token.AMP, p.parseReferenceExpression)
	p.registerPrefix(token.AND, p.parseReferenceExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayExpression)
	p.registerPrefix(token.LBRACE, p.parseBlockExpression)
	p.registerPrefix(token.PIPE, p.parseClosureExpression)
	p.registerPrefix(token.OR, p.parseClosureExpression)
	p.registerPrefix(token.MOVE, p.parseClosureExpression)
	p.registerPrefix(token.STATIC, p.parseClosureExpression)
	p.registerPrefix(token.ASYNC, p.parseAsyncExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.MATCH, p.parseMatchExpression)
	p.registerPrefix(token.WHILE, p.parseWhileExpression)
	p.registerPrefix(token.LOOP, p.parseLoopExpression)
	p.registerPrefix(token.FOR, p.parseForExpression)
	p.registerPrefix(token.LIFETIME, p.parseLabeledExpression)
	p.registerPrefix(token.UNSAFE, p.parseUnsafeExpression)
	p.registerPrefix(token.CONST, p.parseConstExpression)
	p.registerPrefix(token.TRY, p.parseTryBlockExpression)
	p.registerPrefix(token.RETURN, p.parseReturnExpression)
	p.registerPrefix(token.BREAK, p.parseBreakExpression)
	p.registerPrefix(token.CONTINUE, p.parseContinueExpression)
	p.registerPrefix(token.YIELD, p.parseYieldExpression)
	p.registerPrefix(token.LET, p.parseLetExpression)
	p.registerPrefix(token.UNDERSCORE, p.parseInferExpression)
	p.registerPrefix(token.DOT_DOT, p.parsePrefixRange)
	p.registerPrefix(token.DOT_DOT_EQ, p.parsePrefixRange)
	p.registerPrefix(token.HASH, p.parseAttributedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for t, prec := range precedences {
		switch {
		case prec == ASSIGN:
			p.registerInfix(t, p.parseAssignExpression)
		case prec == RANGE:
			p.registerInfix(t, p.parseRangeExpression)
		case prec >= OR && prec <= PRODUCT:
			p.registerInfix(t, p.parseBinaryExpression)
		}
	}
	p.registerInfix(token.AS, p.parseCastExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)
	p.registerInfix(token.QUESTION, p.parseTryExpression)

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Cur returns the next unconsumed token.
func (p *Parser) Cur() token.Token {
	return p.tokens[p.pos]
}

// PeekAt returns the token n positions after the cursor, or EOF.
func (p *Parser) PeekAt(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// Next consumes and returns the current token. EOF is never consumed.
func (p *Parser) Next() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) CurIs(t token.TokenType) bool {
	return p.tokens[p.pos].Type == t
}

func (p *Parser) peekIs(n int, t token.TokenType) bool {
	return p.PeekAt(n).Type == t
}

func (p *Parser) AtEnd() bool {
	return p.CurIs(token.EOF)
}

// Mark returns the cursor position for a later Reset.
func (p *Parser) Mark() int {
	return p.pos
}

// Reset moves the cursor back to a position returned by Mark.
func (p *Parser) Reset(mark int) {
	p.pos = mark
}

// Slice returns the tokens consumed between mark and the cursor.
func (p *Parser) Slice(mark int) []token.Token {
	return p.tokens[mark:p.pos]
}

// Remaining returns every unconsumed token, EOF excluded.
func (p *Parser) Remaining() []token.Token {
	return p.tokens[p.pos : len(p.tokens)-1]
}

// Expect consumes a token of type t or fails with P002.
func (p *Parser) Expect(t token.TokenType, lexeme string) (token.Token, *diagnostics.DiagnosticError) {
	if !p.CurIs(t) {
		return p.Cur(), diagnostics.NewExpectedError(diagnostics.ErrP002, p.Cur(), lexeme)
	}
	return p.Next(), nil
}

// fail records err and unwinds to the nearest entry point.
func (p *Parser) fail(err *diagnostics.DiagnosticError) {
	p.err = err
	panic(bailout{})
}

func (p *Parser) expect(t token.TokenType, lexeme string) token.Token {
	tok, err := p.Expect(t, lexeme)
	if err != nil {
		p.fail(err)
	}
	return tok
}

func (p *Parser) expectIdent() token.Token {
	if !p.CurIs(token.IDENT) {
		p.fail(diagnostics.NewExpectedError(diagnostics.ErrP002, p.Cur(), "identifier"))
	}
	return p.Next()
}

// guard runs fn and converts a bailout into the recorded error. On
// failure the cursor is restored, so a failed parse consumes nothing.
func (p *Parser) guard(fn func()) (err *diagnostics.DiagnosticError) {
	mark := p.Mark()
	depth, noStruct := p.depth, p.noStruct
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = p.err
			p.err = nil
			p.Reset(mark)
			p.depth, p.noStruct = depth, noStruct
		}
	}()
	fn()
	return nil
}

// ParseExpression parses one expression starting at the cursor.
func (p *Parser) ParseExpression() (ast.Expression, *diagnostics.DiagnosticError) {
	var expr ast.Expression
	err := p.guard(func() { expr = p.parseExpression(LOWEST) })
	return expr, err
}

// ParseExpressionNoStruct parses an expression in condition position,
// where `Path {` opens the following block instead of a struct literal.
func (p *Parser) ParseExpressionNoStruct() (ast.Expression, *diagnostics.DiagnosticError) {
	var expr ast.Expression
	err := p.guard(func() {
		p.noStruct = true
		expr = p.parseExpression(LOWEST)
		p.noStruct = false
	})
	return expr, err
}

// ParseBlock parses a `{ ... }` block.
func (p *Parser) ParseBlock() (*ast.BlockExpression, *diagnostics.DiagnosticError) {
	var block *ast.BlockExpression
	err := p.guard(func() { block = p.parseBlock() })
	return block, err
}

// ParseType parses a type and returns its tokens.
func (p *Parser) ParseType() (ast.Tokens, *diagnostics.DiagnosticError) {
	var ty ast.Tokens
	err := p.guard(func() { ty = p.parseType() })
	return ty, err
}

// ParsePattern parses a pattern up to the first of stop at nesting depth zero.
func (p *Parser) ParsePattern(stop ...token.TokenType) (ast.Tokens, *diagnostics.DiagnosticError) {
	var pat ast.Tokens
	err := p.guard(func() { pat = p.parsePattern(stop...) })
	return pat, err
}

// ParseFull parses tokens as exactly one expression. Anything left over is
// reported as P004.
func ParseFull(tokens []token.Token) (ast.Expression, *diagnostics.DiagnosticError) {
	p := New(tokens)
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.AtEnd() {
		return nil, diagnostics.NewError(diagnostics.ErrP004, p.Cur(),
			"unexpected `"+p.Cur().Lexeme+"` after expression")
	}
	return expr, nil
}
