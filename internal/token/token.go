package token

import "fmt"

type TokenType string

// Token is a single lexical unit of the host language.
// Offset and End are byte offsets into the lexed input; SpaceBefore records
// whether whitespace or a comment separated it from the previous token.
type Token struct {
	Type        TokenType
	Lexeme      string
	Literal     string
	Line        int
	Column      int
	Offset      int
	End         int
	SpaceBefore bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT     TokenType = "IDENT"
	LIFETIME  TokenType = "LIFETIME"
	INT       TokenType = "INT"
	FLOAT     TokenType = "FLOAT"
	STRING    TokenType = "STRING"
	RAWSTRING TokenType = "RAWSTRING"
	BYTESTR   TokenType = "BYTESTR"
	CHAR      TokenType = "CHAR"
	BYTE      TokenType = "BYTE"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	CARET    TokenType = "^"
	AMP      TokenType = "&"
	PIPE     TokenType = "|"
	TILDE    TokenType = "~"
	QUESTION TokenType = "?"

	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	CARET_ASSIGN    TokenType = "^="
	AMP_ASSIGN      TokenType = "&="
	PIPE_ASSIGN     TokenType = "|="
	SHL             TokenType = "<<"
	SHL_ASSIGN      TokenType = "<<="

	// Comparison. '>' is never joined by the lexer: '>=', '>>' and '>>='
	// are recognised by the parser from adjacent tokens.
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LT_EQ  TokenType = "<="

	// Logical
	AND TokenType = "&&"
	OR  TokenType = "||"

	// Delimiters
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	SEMICOLON    TokenType = ";"
	COMMA        TokenType = ","
	DOT          TokenType = "."
	DOT_DOT      TokenType = ".."
	DOT_DOT_EQ   TokenType = "..="
	ELLIPSIS     TokenType = "..."
	ARROW        TokenType = "->"
	FAT_ARROW    TokenType = "=>"
	HASH         TokenType = "#"
	DOLLAR       TokenType = "$"
	AT           TokenType = "@"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	AS         TokenType = "AS"
	ASYNC      TokenType = "ASYNC"
	AWAIT      TokenType = "AWAIT"
	BREAK      TokenType = "BREAK"
	CONST      TokenType = "CONST"
	CONTINUE   TokenType = "CONTINUE"
	CRATE      TokenType = "CRATE"
	DYN        TokenType = "DYN"
	ELSE       TokenType = "ELSE"
	FALSE      TokenType = "FALSE"
	FN         TokenType = "FN"
	FOR        TokenType = "FOR"
	IF         TokenType = "IF"
	IMPL       TokenType = "IMPL"
	IN         TokenType = "IN"
	LET        TokenType = "LET"
	LOOP       TokenType = "LOOP"
	MATCH      TokenType = "MATCH"
	MOVE       TokenType = "MOVE"
	MUT        TokenType = "MUT"
	REF        TokenType = "REF"
	RETURN     TokenType = "RETURN"
	SELF       TokenType = "SELF"
	SELF_TYPE  TokenType = "SELF_TYPE"
	STATIC     TokenType = "STATIC"
	SUPER      TokenType = "SUPER"
	TRUE       TokenType = "TRUE"
	TRY        TokenType = "TRY"
	UNSAFE     TokenType = "UNSAFE"
	WHERE      TokenType = "WHERE"
	WHILE      TokenType = "WHILE"
	YIELD      TokenType = "YIELD"
	UNDERSCORE TokenType = "_"
)

var keywords = map[string]TokenType{
	"as":       AS,
	"async":    ASYNC,
	"await":    AWAIT,
	"break":    BREAK,
	"const":    CONST,
	"continue": CONTINUE,
	"crate":    CRATE,
	"dyn":      DYN,
	"else":     ELSE,
	"false":    FALSE,
	"fn":       FN,
	"for":      FOR,
	"if":       IF,
	"impl":     IMPL,
	"in":       IN,
	"let":      LET,
	"loop":     LOOP,
	"match":    MATCH,
	"move":     MOVE,
	"mut":      MUT,
	"ref":      REF,
	"return":   RETURN,
	"self":     SELF,
	"Self":     SELF_TYPE,
	"static":   STATIC,
	"super":    SUPER,
	"true":     TRUE,
	"try":      TRY,
	"unsafe":   UNSAFE,
	"where":    WHERE,
	"while":    WHILE,
	"yield":    YIELD,
	"_":        UNDERSCORE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}

// IsPathSegment reports whether a token may start or continue a path.
func IsPathSegment(t TokenType) bool {
	switch t {
	case IDENT, SELF, SELF_TYPE, SUPER, CRATE:
		return true
	}
	return false
}

// Joined reports whether next immediately follows prev with no space between.
func Joined(prev, next Token) bool {
	return !next.SpaceBefore && prev.End == next.Offset
}
