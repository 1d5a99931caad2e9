// Package expander rewrites the `thread!` invocations of a Rust source file
// in place, leaving every other byte of the file untouched.
//
// Each invocation body runs through the lexer, thread and printer stages of
// a pipeline. Expanding can expose invocations that were nested inside
// instruction arguments, so the file is rescanned until none remain or the
// configured max_depth is reached.
package expander

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/thread/internal/cache"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/lexer"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/pipeline"
	"github.com/funvibe/thread/internal/prettyprinter"
	"github.com/funvibe/thread/internal/thread"
	"github.com/funvibe/thread/internal/token"
)

// Expander expands macro invocations under one set of settings.
type Expander struct {
	Settings *config.Settings

	// Cache, when set, short-circuits bodies that were expanded before.
	Cache *cache.Cache

	// Trace receives expander and pipeline traces when non-nil.
	Trace io.Writer

	paths [][]string
}

// Result describes one expanded file.
type Result struct {
	Source   string
	Expanded int // invocations rewritten, across all rounds
	Cached   int // of which served from the cache
	Rounds   int
}

// Changed reports whether any invocation was rewritten.
func (r *Result) Changed() bool { return r.Expanded > 0 }

// invocation is one `path!(body)` occurrence in the scanned text.
type invocation struct {
	path  token.Token // first token of the macro path
	name  string
	open  token.Token
	close token.Token
	prev  token.Token // zero at the start of the text
	next  token.Token // EOF at the end of the text
}

func New(settings *config.Settings) *Expander {
	if settings == nil {
		settings = config.Default()
	}
	e := &Expander{Settings: settings}
	for _, m := range settings.Macros {
		e.paths = append(e.paths, strings.Split(m, "::"))
	}
	return e
}

func (e *Expander) tracef(format string, args ...any) {
	if e.Trace != nil {
		fmt.Fprintf(e.Trace, "[expander] "+format+"\n", args...)
	}
}

// ExpandSource expands every invocation in src. path is only used to label
// diagnostics. Diagnostics point at the offending token inside the text of
// the round that raised them; for a top-level invocation that is the
// original file.
func (e *Expander) ExpandSource(path, src string) (*Result, []*diagnostics.DiagnosticError) {
	res := &Result{Source: src}
	for {
		tokens, errs := lexer.Tokenize(res.Source)
		if len(errs) > 0 {
			return nil, withFile(errs, path)
		}
		invs, err := e.scan(tokens)
		if err != nil {
			return nil, []*diagnostics.DiagnosticError{err.WithFile(path)}
		}
		if len(invs) == 0 {
			return res, nil
		}
		if res.Rounds >= e.Settings.MaxDepth {
			err := diagnostics.NewError(diagnostics.ErrX002, invs[0].path,
				fmt.Sprintf("nested `%s!` invocations exceed max_depth %d", invs[0].name, e.Settings.MaxDepth))
			return nil, []*diagnostics.DiagnosticError{err.WithFile(path)}
		}
		res.Rounds++
		e.tracef("%s: round %d, %d invocation(s)", displayPath(path), res.Rounds, len(invs))

		out, errs := e.splice(path, res.Source, invs, res)
		if len(errs) > 0 {
			return nil, errs
		}
		res.Source = out
	}
}

// ExpandBody expands a single macro body, as written between the
// delimiters of an invocation, and any invocations its expansion contains.
// Diagnostics are relative to body.
func (e *Expander) ExpandBody(body string) (string, []*diagnostics.DiagnosticError) {
	out, _, errs := e.expandBody("", body)
	if len(errs) > 0 {
		return "", errs
	}
	res, errs := e.ExpandSource("", out)
	if len(errs) > 0 {
		return "", errs
	}
	return res.Source, nil
}

// splice rewrites every invocation of one round, collecting the
// diagnostics of all of them before giving up.
func (e *Expander) splice(path, src string, invs []invocation, res *Result) (string, []*diagnostics.DiagnosticError) {
	var b strings.Builder
	var errs []*diagnostics.DiagnosticError
	last := 0
	for _, inv := range invs {
		base := inv.open.End
		out, cached, bodyErrs := e.expandBody(path, src[base:inv.close.Offset])
		if len(bodyErrs) > 0 {
			for _, err := range bodyErrs {
				relocate(err, src, base)
			}
			errs = append(errs, bodyErrs...)
			continue
		}
		if group(inv, out) {
			out = "(" + out + ")"
		}
		if e.Settings.Pretty {
			out = prettyprinter.Indent(out, lineIndent(src, inv.path.Offset))
		}
		b.WriteString(src[last:inv.path.Offset])
		b.WriteString(out)
		last = inv.close.End

		res.Expanded++
		if cached {
			res.Cached++
		}
	}
	if len(errs) > 0 {
		return "", errs
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// expandBody renders one body, consulting the cache first. Cache failures
// are traced and otherwise ignored. With Verify set, cached output is
// checked like fresh output.
func (e *Expander) expandBody(path, body string) (string, bool, []*diagnostics.DiagnosticError) {
	out, cached, key := e.lookup(body)
	if !cached {
		ctx := &pipeline.PipelineContext{
			SourceCode: body,
			FilePath:   path,
			Settings:   e.Settings,
			Trace:      e.Trace,
		}
		ctx = pipeline.New(
			&lexer.LexerProcessor{},
			&thread.ExpandProcessor{},
			&prettyprinter.PrinterProcessor{},
		).Run(ctx)
		if len(ctx.Errors) > 0 {
			return "", false, ctx.Errors
		}
		out = ctx.Output
	}

	if e.Settings.Verify {
		if err := e.verify(out); err != nil {
			msg := fmt.Sprintf("expansion does not parse back: %s in %q", err.Message, out)
			bad := diagnostics.NewError(err.Code, token.Token{Line: 1, Column: 1}, msg)
			return "", false, []*diagnostics.DiagnosticError{bad.WithFile(path)}
		}
	}

	if e.Cache != nil && !cached {
		if err := e.Cache.Put(key, out); err != nil {
			e.tracef("cache put: %v", err)
		}
	}
	return out, cached, nil
}

// lookup returns the cached rendering of body, if any, and the key it is
// stored under.
func (e *Expander) lookup(body string) (string, bool, string) {
	if e.Cache == nil {
		return "", false, ""
	}
	key := cache.Key(e.Settings.Fingerprint(), body)
	out, ok, err := e.Cache.Get(key)
	switch {
	case err != nil:
		e.tracef("cache get: %v", err)
		return "", false, key
	case ok:
		e.tracef("cache hit %s", key)
	}
	return out, ok, key
}

// verify parses a rendered expansion back as a standalone expression.
func (e *Expander) verify(out string) *diagnostics.DiagnosticError {
	ctx := &pipeline.PipelineContext{SourceCode: out, Settings: e.Settings, Trace: e.Trace}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		return ctx.Errors[0]
	}
	return nil
}

// group reports whether out must be parenthesised to stay one expression
// where inv stood. Only statement position matters: there a leading
// block-like expression ends the statement on its own, so anything
// following it, inside out or after the invocation, would be cut off.
func group(inv invocation, out string) bool {
	switch inv.prev.Type {
	case "", token.SEMICOLON, token.LBRACE, token.RBRACE:
	default:
		return false
	}
	tokens, errs := lexer.Tokenize(out)
	if len(errs) > 0 || !parser.StartsBlockLike(tokens) {
		return false
	}
	expr, err := parser.ParseFull(tokens)
	if err != nil || !parser.IsBlockLike(expr) {
		return true
	}
	switch inv.next.Type {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		return false
	}
	return true
}

func withFile(errs []*diagnostics.DiagnosticError, path string) []*diagnostics.DiagnosticError {
	for _, err := range errs {
		err.WithFile(path)
	}
	return errs
}

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}

// relocate moves a diagnostic raised inside a body starting at byte base
// of src to its absolute position in src.
func relocate(err *diagnostics.DiagnosticError, src string, base int) {
	off := min(base+err.Token.Offset, len(src))
	if err.Token.End >= err.Token.Offset {
		err.Token.End = min(base+err.Token.End, len(src))
	} else {
		err.Token.End = off
	}
	err.Token.Offset = off
	err.Token.Line, err.Token.Column = position(src, off)
}

// position returns the 1-based line and rune column of byte offset off.
func position(src string, off int) (line, col int) {
	before := src[:off]
	line = 1 + strings.Count(before, "\n")
	start := strings.LastIndexByte(before, '\n') + 1
	return line, 1 + utf8.RuneCountInString(before[start:])
}

// lineIndent returns the leading whitespace of the line holding off.
func lineIndent(src string, off int) string {
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := start
	for end < off && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}
