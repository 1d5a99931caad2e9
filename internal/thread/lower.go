package thread

import (
	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

// condStep is one `cond => step` item of a Cond pipeline.
type condStep struct {
	cond ast.Expression
	body ExtendedExpr
}

func parseCondStep(p *parser.Parser) (condStep, *diagnostics.DiagnosticError) {
	cond, err := p.ParseExpression()
	if err != nil {
		return condStep{}, err
	}
	if !p.CurIs(token.FAT_ARROW) {
		return condStep{}, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), "=>")
	}
	p.Next()
	body, err := ParseExtended(p)
	if err != nil {
		return condStep{}, err
	}
	return condStep{cond: cond, body: body}, nil
}

// parseSteps parses `step (, step)* ,?` up to the end of input.
func parseSteps[S any](p *parser.Parser, parseStep func(*parser.Parser) (S, *diagnostics.DiagnosticError)) ([]S, *diagnostics.DiagnosticError) {
	var steps []S
	for !p.AtEnd() {
		step, err := parseStep(p)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		if p.AtEnd() {
			break
		}
		if !p.CurIs(token.COMMA) {
			return nil, diagnostics.NewExpectedError(diagnostics.ErrT001, p.Cur(), ",")
		}
		p.Next()
	}
	if len(steps) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrT002, p.Cur(), config.EmptyPipeMessage)
	}
	return steps, nil
}

// accumulator is the state carried from one step to the next. Without
// an alias value holds the expression built so far. With an alias the
// steps become lets rebinding it, except under Some/Ok where value
// holds the map chain.
type accumulator struct {
	value ast.Expression
	lets  []ast.Statement
}

// empty reports whether no step has contributed yet under an alias.
func (acc accumulator) empty() bool {
	return acc.value == nil && len(acc.lets) == 0
}

func fold[S any](steps []S, acc accumulator, step func(accumulator, S) accumulator) accumulator {
	for _, s := range steps {
		acc = step(acc, s)
	}
	return acc
}

type lowering struct {
	macro *ThreadMacro
	bound string
}

func (l *lowering) start() accumulator {
	if _, ok := l.macro.alias(); ok {
		return accumulator{}
	}
	return accumulator{value: l.macro.GivenInitialExpr}
}

// rebind records result as the new carried value.
func (l *lowering) rebind(acc accumulator, result ast.Expression) accumulator {
	if a, ok := l.macro.alias(); ok {
		return accumulator{lets: append(acc.lets, ast.NewLet(a.Name.Lexeme, result))}
	}
	return accumulator{value: result}
}

// plain lowers `f(args)` to `f(acc, args)`, or `f(args, acc)` under last.
func (l *lowering) plain(acc accumulator, step ExtendedExpr) accumulator {
	callee, args := Split(step)
	args = Inject(l.macro.AliasOrPlacement, args, acc.value, acc.empty())
	return l.rebind(acc, callee.Apply(args))
}

// mapped lowers a step to `acc.map(|i| f(i, args))`. Under an alias the
// closure parameter is the alias itself.
func (l *lowering) mapped(acc accumulator, step ExtendedExpr) accumulator {
	callee, args := Split(step)
	param, receiver := l.bound, acc.value
	if a, ok := l.macro.alias(); ok {
		param = a.Name.Lexeme
		if acc.empty() {
			receiver = a.ident()
		}
	}
	args = Inject(l.macro.AliasOrPlacement, args, ast.NewIdent(l.bound), acc.empty())

	closure := &ast.ClosureExpression{
		Token:  ast.Punct(token.PIPE, "|"),
		Params: []ast.ClosureParam{{Pattern: ast.Tokens{ast.Ident(param)}}},
		Body:   callee.Apply(args),
	}
	return accumulator{value: &ast.MethodCallExpression{
		Token:     ast.Punct(token.DOT, "."),
		Receiver:  receiver,
		Method:    ast.Ident(config.MapMethodName),
		Arguments: []ast.Expression{closure},
	}}
}

// conditional lowers `c => f(args)` to
// `{ if c { f(acc, args) } else { acc } }`. Under CondClone every step
// but an aliased first one works on a clone of the carried value.
func (l *lowering) conditional(acc accumulator, step condStep) accumulator {
	callee, args := Split(step.body)
	carried := acc.value
	if a, ok := l.macro.alias(); ok {
		carried = a.ident()
	}
	if l.macro.Pattern == CondClone && !acc.empty() {
		carried = cloned(carried)
	}
	args = Inject(l.macro.AliasOrPlacement, args, carried, acc.empty())

	branch := &ast.IfExpression{
		Token:       ast.Punct(token.IF, "if"),
		Condition:   step.cond,
		Consequence: braced(callee.Apply(args)),
		Alternative: braced(carried),
	}
	return l.rebind(acc, braced(branch))
}

func cloned(e ast.Expression) ast.Expression {
	return &ast.ParenExpression{
		Token: ast.Punct(token.LPAREN, "("),
		Inner: &ast.MethodCallExpression{
			Token:    ast.Punct(token.DOT, "."),
			Receiver: e,
			Method:   ast.Ident(config.CloneMethodName),
		},
	}
}

// finish closes an aliased pipeline into
// `{ let a = init; let a = ...; a }`. Some/Ok end in the map chain
// instead of the alias.
func (l *lowering) finish(acc accumulator) ast.Expression {
	a, ok := l.macro.alias()
	if !ok {
		return acc.value
	}
	stmts := make([]ast.Statement, 0, len(acc.lets)+1)
	stmts = append(stmts, ast.NewLet(a.Name.Lexeme, l.macro.GivenInitialExpr))
	stmts = append(stmts, acc.lets...)

	var tail ast.Expression = a.ident()
	if _, ok := l.macro.Pattern.(MapPattern); ok {
		tail = acc.value
	}
	return &ast.BlockExpression{
		Token:      ast.Punct(token.LBRACE, "{"),
		Statements: stmts,
		Tail:       tail,
	}
}

// lower parses the steps after `in` and folds them into one expression.
func lower(p *parser.Parser, m *ThreadMacro, bound string) (ast.Expression, *diagnostics.DiagnosticError) {
	l := &lowering{macro: m, bound: bound}
	acc := l.start()

	switch m.Pattern.(type) {
	case CondPattern:
		steps, err := parseSteps(p, parseCondStep)
		if err != nil {
			return nil, err
		}
		acc = fold(steps, acc, l.conditional)
	case MapPattern:
		steps, err := parseSteps(p, ParseExtended)
		if err != nil {
			return nil, err
		}
		acc = fold(steps, acc, l.mapped)
	default:
		steps, err := parseSteps(p, ParseExtended)
		if err != nil {
			return nil, err
		}
		acc = fold(steps, acc, l.plain)
	}
	return l.finish(acc), nil
}
