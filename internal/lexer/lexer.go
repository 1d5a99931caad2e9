package lexer

import (
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	lastType token.TokenType
	errors   []*diagnostics.DiagnosticError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Errors returns the diagnostics for every ILLEGAL token produced so far.
func (l *Lexer) Errors() []*diagnostics.DiagnosticError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// punctuation is matched longest first. '>' is deliberately absent from
// every multi-character entry.
var punctuation = []struct {
	text string
	typ  token.TokenType
}{
	{"<<=", token.SHL_ASSIGN},
	{"...", token.ELLIPSIS},
	{"..=", token.DOT_DOT_EQ},
	{"::", token.DOUBLE_COLON},
	{"->", token.ARROW},
	{"=>", token.FAT_ARROW},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQ},
	{"<<", token.SHL},
	{"&&", token.AND},
	{"||", token.OR},
	{"+=", token.PLUS_ASSIGN},
	{"-=", token.MINUS_ASSIGN},
	{"*=", token.ASTERISK_ASSIGN},
	{"/=", token.SLASH_ASSIGN},
	{"%=", token.PERCENT_ASSIGN},
	{"^=", token.CARET_ASSIGN},
	{"&=", token.AMP_ASSIGN},
	{"|=", token.PIPE_ASSIGN},
	{"..", token.DOT_DOT},
	{"=", token.ASSIGN},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"!", token.BANG},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"^", token.CARET},
	{"&", token.AMP},
	{"|", token.PIPE},
	{"~", token.TILDE},
	{"?", token.QUESTION},
	{"<", token.LT},
	{">", token.GT},
	{":", token.COLON},
	{";", token.SEMICOLON},
	{",", token.COMMA},
	{".", token.DOT},
	{"#", token.HASH},
	{"$", token.DOLLAR},
	{"@", token.AT},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
}

func (l *Lexer) NextToken() token.Token {
	spaced := l.skipWhitespace()
	start, line, col := l.position, l.line, l.column

	var tok token.Token
	switch {
	case l.ch == 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col, Offset: len(l.input), End: len(l.input)}
		tok.SpaceBefore = spaced
		return tok
	case l.ch == 'r' && l.peekChar() == '#' && isLetter(l.peekChar2()):
		// raw identifier r#name
		l.readChar()
		l.readChar()
		l.readIdentifier()
		tok = l.emit(token.IDENT, start, line, col)
		tok.Literal = tok.Lexeme[2:]
	case (l.ch == 'r' && (l.peekChar() == '"' || l.peekChar() == '#')) ||
		(l.ch == 'b' && l.peekChar() == 'r' && (l.peekChar2() == '"' || l.peekChar2() == '#')):
		if l.ch == 'b' {
			l.readChar()
		}
		l.readChar() // r
		content, ok := l.readRawString()
		if !ok {
			tok = l.illegal(diagnostics.ErrL002, start, line, col, "unterminated raw string literal")
			break
		}
		tok = l.emit(token.RAWSTRING, start, line, col)
		tok.Literal = content
	case l.ch == 'b' && l.peekChar() == '"', l.ch == 'c' && l.peekChar() == '"':
		l.readChar()
		content, ok := l.readString()
		if !ok {
			tok = l.illegal(diagnostics.ErrL002, start, line, col, "unterminated byte string literal")
			break
		}
		tok = l.emit(token.BYTESTR, start, line, col)
		tok.Literal = content
	case l.ch == 'b' && l.peekChar() == '\'':
		l.readChar()
		if !l.readCharLiteral() {
			tok = l.illegal(diagnostics.ErrL002, start, line, col, "unterminated byte literal")
			break
		}
		tok = l.emit(token.BYTE, start, line, col)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		tok = l.emit(token.LookupIdent(ident), start, line, col)
	case isDigit(l.ch):
		typ := token.INT
		if l.readNumber() {
			typ = token.FLOAT
		}
		tok = l.emit(typ, start, line, col)
	case l.ch == '"':
		content, ok := l.readString()
		if !ok {
			tok = l.illegal(diagnostics.ErrL002, start, line, col, "unterminated string literal")
			break
		}
		tok = l.emit(token.STRING, start, line, col)
		tok.Literal = content
	case l.ch == '\'':
		tok = l.readQuote(start, line, col)
	default:
		matched := false
		for _, p := range punctuation {
			if strings.HasPrefix(l.input[l.position:], p.text) {
				for range p.text {
					l.readChar()
				}
				tok = l.emit(p.typ, start, line, col)
				matched = true
				break
			}
		}
		if !matched {
			l.readChar()
			tok = l.illegal(diagnostics.ErrL001, start, line, col, "illegal character "+l.input[start:l.position])
		}
	}

	tok.SpaceBefore = spaced
	l.lastType = tok.Type
	return tok
}

// Tokenize lexes the whole input. The returned slice always ends with EOF.
func Tokenize(input string) ([]token.Token, []*diagnostics.DiagnosticError) {
	return New(input).All()
}

// All drains the lexer.
func (l *Lexer) All() ([]token.Token, []*diagnostics.DiagnosticError) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, l.errors
}

func (l *Lexer) emit(typ token.TokenType, start, line, col int) token.Token {
	lexeme := l.input[start:l.position]
	return token.Token{Type: typ, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col, Offset: start, End: l.position}
}

func (l *Lexer) illegal(code diagnostics.ErrorCode, start, line, col int, msg string) token.Token {
	tok := l.emit(token.ILLEGAL, start, line, col)
	l.errors = append(l.errors, diagnostics.NewError(code, tok, msg))
	return tok
}

// readQuote handles both 'c' char literals and 'a lifetimes.
func (l *Lexer) readQuote(start, line, col int) token.Token {
	if l.peekChar() == '\\' || l.peekChar2() == '\'' {
		if !l.readCharLiteral() {
			return l.illegal(diagnostics.ErrL002, start, line, col, "unterminated character literal, expected '")
		}
		return l.emit(token.CHAR, start, line, col)
	}
	if isLetter(l.peekChar()) {
		l.readChar() // '
		l.readIdentifier()
		return l.emit(token.LIFETIME, start, line, col)
	}
	l.readChar()
	return l.illegal(diagnostics.ErrL002, start, line, col, "unterminated character literal, expected '")
}

// readCharLiteral consumes '...' starting at the opening quote.
func (l *Lexer) readCharLiteral() bool {
	l.readChar() // opening '
	for l.ch != '\'' {
		if l.ch == 0 || l.ch == '\n' {
			return false
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	l.readChar() // closing '
	return true
}

// readString consumes "..." starting at the opening quote and returns the
// raw content between the quotes.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // opening "
	position := l.position
	for l.ch != '"' {
		if l.ch == 0 {
			return "", false
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	content := l.input[position:l.position]
	l.readChar() // closing "
	return content, true
}

// readRawString consumes #*"..."#* with a matching number of hashes.
func (l *Lexer) readRawString() (string, bool) {
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.readChar()
	}
	if l.ch != '"' {
		return "", false
	}
	l.readChar()
	position := l.position
	closing := "\"" + strings.Repeat("#", hashes)
	for l.ch != 0 {
		if strings.HasPrefix(l.input[l.position:], closing) {
			content := l.input[position:l.position]
			for range closing {
				l.readChar()
			}
			return content, true
		}
		l.readChar()
	}
	return "", false
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber consumes an integer or float literal including its type suffix
// and reports whether it was a float. A '.' directly after a field access dot
// is never a fraction, so t.0.1 lexes as two integer fields.
func (l *Lexer) readNumber() bool {
	hex := false
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			hex = true
			l.readChar()
			l.readChar()
		case 'b', 'B', 'o', 'O':
			l.readChar()
			l.readChar()
		}
	}

	for isDigit(l.ch) || l.ch == '_' || (hex && isHexDigit(l.ch)) {
		l.readChar()
	}
	if hex {
		l.readSuffix()
		return false
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) && l.lastType != token.DOT {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && l.lastType != token.DOT {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar2())) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
	}
	if suffix := l.readSuffix(); suffix == "f32" || suffix == "f64" {
		isFloat = true
	}
	return isFloat
}

// readSuffix consumes a literal suffix such as u8 or f64.
func (l *Lexer) readSuffix() string {
	if isLetter(l.ch) {
		return l.readIdentifier()
	}
	return ""
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

// skipWhitespace skips blanks, newlines and comments (block comments nest).
// It reports whether anything was skipped.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
			skipped = true
		}
		if l.ch == '/' {
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				skipped = true
				continue
			} else if l.peekChar() == '*' {
				start, line, col := l.position, l.line, l.column
				l.readChar() // consume /
				l.readChar() // consume *
				depth := 1
				for depth > 0 {
					switch {
					case l.ch == 0:
						l.illegal(diagnostics.ErrL002, start, line, col, "unterminated block comment")
						return true
					case l.ch == '/' && l.peekChar() == '*':
						l.readChar()
						depth++
					case l.ch == '*' && l.peekChar() == '/':
						l.readChar()
						depth--
					}
					l.readChar()
				}
				skipped = true
				continue
			}
		}
		break
	}
	return skipped
}
