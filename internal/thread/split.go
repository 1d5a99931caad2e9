package thread

import (
	"fmt"
	"slices"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/token"
)

// Callee is what remains of a step once its arguments are taken out.
// Apply rebuilds the step around a new argument list.
type Callee interface {
	Apply(args []ast.Expression) ast.Expression
}

// funcCallee applies as `fn(args)`.
type funcCallee struct {
	attrs []ast.Attribute
	fn    ast.Expression
}

func (c funcCallee) Apply(args []ast.Expression) ast.Expression {
	return &ast.CallExpression{
		Token:     ast.Punct(token.LPAREN, "("),
		Attrs:     c.attrs,
		Function:  c.fn,
		Arguments: args,
	}
}

// methodCallee applies as `receiver.method::<T>(args)`.
type methodCallee struct {
	attrs     []ast.Attribute
	dot       token.Token
	receiver  ast.Expression
	method    token.Token
	turbofish *ast.GenericArgs
}

func (c methodCallee) Apply(args []ast.Expression) ast.Expression {
	return &ast.MethodCallExpression{
		Token:     c.dot,
		Attrs:     c.attrs,
		Receiver:  c.receiver,
		Method:    c.method,
		Turbofish: c.turbofish,
		Arguments: args,
	}
}

// Split takes a step apart into its callee and its own arguments.
//
// Calls and method calls split at their argument list. A named field
// `a.f` becomes the method `a.f(...)`. Block-like and primary
// expressions are applied as they are; every other expression is
// wrapped in a block first so the call binds to the whole of it.
func Split(step ExtendedExpr) (Callee, []ast.Expression) {
	switch e := step.(type) {
	case *TurboMethod:
		return methodCallee{
			attrs:     e.Attrs,
			dot:       e.Dot,
			receiver:  e.Receiver,
			method:    e.Method,
			turbofish: e.Turbofish,
		}, nil
	case HostExpr:
		return splitHost(e.Expression)
	}
	panic(fmt.Sprintf("thread: unexpected step %T", step))
}

func splitHost(expr ast.Expression) (Callee, []ast.Expression) {
	switch e := expr.(type) {
	case *ast.CallExpression:
		return funcCallee{attrs: e.Attrs, fn: e.Function}, slices.Clone(e.Arguments)

	case *ast.MethodCallExpression:
		return methodCallee{
			attrs:     e.Attrs,
			dot:       e.Token,
			receiver:  e.Receiver,
			method:    e.Method,
			turbofish: e.Turbofish,
		}, slices.Clone(e.Arguments)

	case *ast.FieldExpression:
		if e.Field.Type == token.IDENT {
			return methodCallee{dot: e.Token, receiver: e.Base, method: e.Field}, nil
		}
		return funcCallee{fn: e}, nil

	case *ast.ArrayExpression, *ast.AsyncExpression, *ast.AwaitExpression,
		*ast.BlockExpression, *ast.IfExpression, *ast.IndexExpression,
		*ast.InferExpression, *ast.Literal, *ast.MacroExpression,
		*ast.MatchExpression, *ast.ParenExpression, *ast.PathExpression,
		*ast.RepeatExpression, *ast.StructExpression, *ast.TupleExpression:
		return funcCallee{fn: e}, nil

	case *ast.AssignExpression, *ast.BinaryExpression, *ast.BreakExpression,
		*ast.CastExpression, *ast.ClosureExpression, *ast.ConstExpression,
		*ast.ContinueExpression, *ast.ForExpression, *ast.LetExpression,
		*ast.LoopExpression, *ast.RangeExpression, *ast.ReferenceExpression,
		*ast.ReturnExpression, *ast.TryExpression, *ast.TryBlockExpression,
		*ast.UnaryExpression, *ast.UnsafeExpression, *ast.WhileExpression,
		*ast.YieldExpression:
		return funcCallee{fn: braced(e)}, nil
	}
	panic(fmt.Sprintf("thread: unexpected expression %T", expr))
}

func braced(e ast.Expression) *ast.BlockExpression {
	return &ast.BlockExpression{Token: ast.Punct(token.LBRACE, "{"), Tail: e}
}
