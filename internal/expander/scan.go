package expander

import (
	"fmt"
	"strings"

	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
)

var closers = map[token.TokenType]token.TokenType{
	token.LPAREN:   token.RPAREN,
	token.LBRACKET: token.RBRACKET,
	token.LBRACE:   token.RBRACE,
}

// scan finds the outermost invocations in tokens, in source order.
// Invocations nested in a body are left for the next round.
func (e *Expander) scan(tokens []token.Token) ([]invocation, *diagnostics.DiagnosticError) {
	var invs []invocation
	for i := 0; i < len(tokens); i++ {
		name, openIdx, ok := e.matchPath(tokens, i)
		if !ok {
			continue
		}
		closeIdx, err := matchDelimiter(tokens, openIdx)
		if err != nil {
			if err.Token.Type == token.EOF {
				err = diagnostics.NewError(diagnostics.ErrX001, tokens[i],
					fmt.Sprintf("unterminated `%s!` invocation", name))
			}
			return nil, err
		}
		inv := invocation{
			path:  tokens[i],
			name:  name,
			open:  tokens[openIdx],
			close: tokens[closeIdx],
			next:  token.Token{Type: token.EOF},
		}
		if i > 0 {
			inv.prev = tokens[i-1]
		}
		if closeIdx+1 < len(tokens) {
			inv.next = tokens[closeIdx+1]
		}
		invs = append(invs, inv)
		i = closeIdx
	}
	return invs, nil
}

// matchPath reports whether a configured macro path followed by `!` and an
// opening delimiter starts at tokens[i]. A path continuing another path
// (`other::thread!`) or a method-like position (`x.thread!`) does not count.
func (e *Expander) matchPath(tokens []token.Token, i int) (string, int, bool) {
	if tokens[i].Type != token.IDENT {
		return "", 0, false
	}
	if i > 0 {
		switch tokens[i-1].Type {
		case token.DOUBLE_COLON, token.DOT:
			return "", 0, false
		}
	}

	for _, segs := range e.paths {
		j := i
		matched := true
		for k, seg := range segs {
			if k > 0 {
				if j >= len(tokens) || tokens[j].Type != token.DOUBLE_COLON {
					matched = false
					break
				}
				j++
			}
			if j >= len(tokens) || tokens[j].Type != token.IDENT || tokens[j].Lexeme != seg {
				matched = false
				break
			}
			j++
		}
		if !matched || j+1 >= len(tokens) || tokens[j].Type != token.BANG {
			continue
		}
		if _, ok := closers[tokens[j+1].Type]; ok {
			return strings.Join(segs, "::"), j + 1, true
		}
	}
	return "", 0, false
}

// matchDelimiter returns the index of the token closing tokens[open].
// A stray or mismatched closer is reported at that closer; running out of
// tokens is reported at the EOF token.
func matchDelimiter(tokens []token.Token, open int) (int, *diagnostics.DiagnosticError) {
	var stack []token.TokenType
	for j := open; j < len(tokens); j++ {
		tok := tokens[j]
		if closer, ok := closers[tok.Type]; ok {
			stack = append(stack, closer)
			continue
		}
		switch tok.Type {
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if stack[len(stack)-1] != tok.Type {
				return -1, diagnostics.NewError(diagnostics.ErrX001, tok,
					fmt.Sprintf("mismatched closing delimiter `%s`, expected `%s`", tok.Lexeme, stack[len(stack)-1]))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j, nil
			}
		case token.EOF:
			return -1, diagnostics.NewError(diagnostics.ErrX001, tok, "unexpected end of input")
		}
	}
	return -1, diagnostics.NewError(diagnostics.ErrX001, token.Token{Type: token.EOF}, "unexpected end of input")
}
