// Package thread rewrites the body of a `thread!` invocation into the
// nested expression it stands for.
//
//	thread!(x in f, g(1), h)       =>  h(g(f(x), 1))
//	thread!(x last in f, g(1))     =>  g(1, f(x))
//	thread!(Some x in f, g)        =>  x.map(|i| f(i)).map(|i| g(i))
//	thread!(Cond x in c => f)      =>  { if c { f(x) } else { x } }
//	thread!(let a = x in f(a, 1))  =>  { let a = x; let a = f(a, 1); a }
package thread

import (
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

// Options control how a body is rewritten.
type Options struct {
	// BoundName is the closure parameter of Some/Ok steps.
	BoundName string
	// Hygienic replaces BoundName with a name derived from the body.
	Hygienic bool
	// StrictPlacement rejects `first`/`last` after a let alias.
	StrictPlacement bool
}

// OptionsFrom extracts the rewrite options from settings.
func OptionsFrom(s *config.Settings) Options {
	return Options{
		BoundName:       s.BoundName,
		Hygienic:        s.Hygienic,
		StrictPlacement: s.StrictPlacement,
	}
}

// hygieneSpace namespaces the name-based UUIDs used for hygienic names.
var hygieneSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/funvibe/thread"))

// HygienicName derives a parameter name from base that is stable for a
// given body and unlikely to collide with anything written in it.
func HygienicName(base, body string) string {
	id := uuid.NewSHA1(hygieneSpace, []byte(body))
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "__" + base + "_" + hex[:8]
}

func (o Options) boundName(body []token.Token) string {
	name := o.BoundName
	if name == "" {
		name = config.DefaultBoundName
	}
	if !o.Hygienic {
		return name
	}
	return HygienicName(name, ast.Tokens(body).String())
}

// Expand rewrites a lexed macro body. The returned error carries the
// offending token with positions relative to the body.
func Expand(tokens []token.Token, opts Options) (ast.Expression, *diagnostics.DiagnosticError) {
	if n := len(tokens); n > 0 && tokens[n-1].Type == token.EOF {
		tokens = tokens[:n-1]
	}

	p := parser.New(tokens)
	m, err := ParsePreamble(p, opts.StrictPlacement)
	if err != nil {
		return nil, err
	}
	if err := m.expectIn(p); err != nil {
		return nil, err
	}
	return lower(p, m, opts.boundName(tokens))
}
