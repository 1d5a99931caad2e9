package thread

import (
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

// keyword maps a contextual keyword to the variant it selects.
type keyword[T comparable] struct {
	text  string
	value T
}

// parseKeyword consumes the current token if it spells one of the
// keywords in table. Otherwise nothing is consumed and the error lists
// every accepted keyword. Raw identifiers never match.
func parseKeyword[T comparable](p *parser.Parser, table []keyword[T]) (T, *diagnostics.DiagnosticError) {
	cur := p.Cur()
	if cur.Type == token.IDENT {
		for _, kw := range table {
			if cur.Lexeme == kw.text {
				p.Next()
				return kw.value, nil
			}
		}
	}
	var zero T
	return zero, diagnostics.NewExpectedError(diagnostics.ErrT001, cur, keywordTexts(table)...)
}

func keywordTexts[T comparable](table []keyword[T]) []string {
	texts := make([]string, len(table))
	for i, kw := range table {
		texts[i] = kw.text
	}
	return texts
}

func keywordText[T comparable](table []keyword[T], v T) string {
	for _, kw := range table {
		if kw.value == v {
			return kw.text
		}
	}
	return "?"
}

// Pattern selects the instruction grammar and lowering. A nil Pattern
// means plain threading.
type Pattern interface {
	pattern()
	String() string
}

// MapPattern lowers each step to `.map(|i| f(i))`.
type MapPattern int

const (
	Some MapPattern = iota
	Ok
)

var mapKeywords = []keyword[MapPattern]{
	{config.SomeKeyword, Some},
	{config.OkKeyword, Ok},
}

func (MapPattern) pattern()         {}
func (m MapPattern) String() string { return keywordText(mapKeywords, m) }

// CondPattern lowers each `cond => f` step to a conditional application.
type CondPattern int

const (
	Cond CondPattern = iota
	// CondClone clones the carried value before each step after the first.
	CondClone
)

var condKeywords = []keyword[CondPattern]{
	{config.CondKeyword, Cond},
	{config.CondCloneKeyword, CondClone},
}

func (CondPattern) pattern()         {}
func (c CondPattern) String() string { return keywordText(condKeywords, c) }

// ParsePattern parses a pattern keyword. The Cond family is tried first.
func ParsePattern(p *parser.Parser) (Pattern, *diagnostics.DiagnosticError) {
	if c, err := parseKeyword(p, condKeywords); err == nil {
		return c, nil
	}
	if m, err := parseKeyword(p, mapKeywords); err == nil {
		return m, nil
	}
	expected := append(keywordTexts(condKeywords), keywordTexts(mapKeywords)...)
	return nil, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), expected...)
}

// Placement is where the threaded value goes among a step's arguments.
type Placement int

const (
	First Placement = iota
	Last
)

var placementKeywords = []keyword[Placement]{
	{config.FirstKeyword, First},
	{config.LastKeyword, Last},
}

func (Placement) aliasOrPlacement() {}
func (pl Placement) String() string { return keywordText(placementKeywords, pl) }

// ParsePlacement parses `first` or `last`. Callers fall back to First
// when it fails.
func ParsePlacement(p *parser.Parser) (Placement, *diagnostics.DiagnosticError) {
	return parseKeyword(p, placementKeywords)
}
