package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/parser"
	"github.com/funvibe/thread/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter renders an expression tree back to host source. Parentheses
// are inserted wherever precedence or the struct-literal restriction
// would otherwise change how the output parses.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int

	// pretty lays blocks and match arms out one item per line.
	pretty bool

	// noStruct is set while printing an if/while condition, a match
	// subject or a for iterable.
	noStruct bool
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// NewPrettyPrinter returns a printer using the multi-line layout.
func NewPrettyPrinter() *CodePrinter {
	return &CodePrinter{pretty: true}
}

// Print renders expr on a single line.
func Print(expr ast.Expression) string {
	p := NewCodePrinter()
	p.PrintExpression(expr)
	return p.String()
}

// PrintPretty renders expr with the multi-line layout.
func PrintPretty(expr ast.Expression) string {
	p := NewPrettyPrinter()
	p.PrintExpression(expr)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

// PrintExpression writes expr at the current position.
func (p *CodePrinter) PrintExpression(expr ast.Expression) {
	p.printExpr(expr, parser.LOWEST)
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// newline starts a new line in pretty mode and writes a single space
// otherwise.
func (p *CodePrinter) newline() {
	if p.pretty {
		p.write("\n")
		p.writeIndent()
		return
	}
	p.write(" ")
}

// Precedence returns the binding power of expr as an operand.
func Precedence(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.AssignExpression:
		return parser.ASSIGN
	case *ast.BinaryExpression:
		return parser.OperatorPrecedence(e.Operator)
	case *ast.RangeExpression:
		return parser.RANGE
	case *ast.CastExpression:
		return parser.CAST
	case *ast.UnaryExpression, *ast.ReferenceExpression:
		return parser.PREFIX
	case *ast.LetExpression:
		// operand of a let chain: `let P = v && w`
		return parser.COMPARE
	case *ast.ClosureExpression, *ast.ReturnExpression, *ast.BreakExpression,
		*ast.YieldExpression:
		return parser.JUMP
	case *ast.CallExpression, *ast.MethodCallExpression, *ast.FieldExpression,
		*ast.IndexExpression, *ast.TryExpression, *ast.AwaitExpression:
		return parser.POSTFIX
	}
	return parser.PRIMARY
}

// IsBlockLike reports whether expr ends a statement without a semicolon.
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

// leftmost returns the operand an expression's source text starts with.
func leftmost(expr ast.Expression) ast.Expression {
	for {
		var next ast.Expression
		switch e := expr.(type) {
		case *ast.CallExpression:
			if len(e.Attrs) > 0 {
				return expr
			}
			next = e.Function
		case *ast.MethodCallExpression:
			if len(e.Attrs) > 0 {
				return expr
			}
			next = e.Receiver
		case *ast.FieldExpression:
			next = e.Base
		case *ast.IndexExpression:
			next = e.Base
		case *ast.TryExpression:
			next = e.Value
		case *ast.AwaitExpression:
			next = e.Base
		case *ast.BinaryExpression:
			next = e.Left
		case *ast.AssignExpression:
			next = e.Left
		case *ast.CastExpression:
			next = e.Value
		case *ast.RangeExpression:
			next = e.Start
		}
		if next == nil {
			return expr
		}
		expr = next
	}
}

// printStatementExpr prints an expression in statement position, where a
// leading block would end the statement early.
func (p *CodePrinter) printStatementExpr(expr ast.Expression) {
	if !IsBlockLike(expr) && IsBlockLike(leftmost(expr)) {
		p.parens(expr)
		return
	}
	p.printExpr(expr, parser.LOWEST)
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, minPrec int) {
	if _, ok := expr.(*ast.StructExpression); ok && p.noStruct {
		p.parens(expr)
		return
	}
	if Precedence(expr) < minPrec {
		p.parens(expr)
		return
	}
	expr.Accept(p)
}

func (p *CodePrinter) parens(expr ast.Expression) {
	restore := p.allowStruct()
	p.write("(")
	expr.Accept(p)
	p.write(")")
	restore()
}

// printBase prints the operand of a postfix operator.
func (p *CodePrinter) printBase(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.CallExpression:
		if len(e.Attrs) > 0 {
			p.parens(expr)
			return
		}
	case *ast.MethodCallExpression:
		if len(e.Attrs) > 0 {
			p.parens(expr)
			return
		}
	}
	p.printExpr(expr, parser.POSTFIX)
}

func (p *CodePrinter) allowStruct() func() {
	prev := p.noStruct
	p.noStruct = false
	return func() { p.noStruct = prev }
}

func (p *CodePrinter) printCondition(expr ast.Expression) {
	prev := p.noStruct
	p.noStruct = true
	p.printExpr(expr, parser.LOWEST)
	p.noStruct = prev
}

func (p *CodePrinter) printList(exprs []ast.Expression) {
	restore := p.allowStruct()
	defer restore()
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, parser.LOWEST)
	}
}

func (p *CodePrinter) printAttrs(attrs []ast.Attribute) {
	for _, a := range attrs {
		p.write(a.Tokens.String())
		p.write(" ")
	}
}

func (p *CodePrinter) printLabel(label *token.Token) {
	if label != nil {
		p.write(label.Lexeme)
		p.write(": ")
	}
}

func (p *CodePrinter) printPath(path *ast.Path) {
	if path.QSelf != nil {
		p.write(path.QSelf.String())
		p.write("::")
	} else if path.Global {
		p.write("::")
	}
	for i, seg := range path.Segments {
		if i > 0 {
			p.write("::")
		}
		p.write(seg.Name.Lexeme)
		p.printGenerics(seg.Generics)
	}
}

func (p *CodePrinter) printGenerics(g *ast.GenericArgs) {
	if g == nil {
		return
	}
	if g.Turbofish {
		p.write("::")
	}
	p.write(g.Tokens.String())
}

// printBlockBody prints `{ ... }`.
func (p *CodePrinter) printBlockBody(n *ast.BlockExpression) {
	if n == nil {
		p.write("{}")
		return
	}
	if len(n.Statements) == 0 && n.Tail == nil {
		p.write("{}")
		return
	}
	restore := p.allowStruct()
	defer restore()

	p.write("{")
	p.indent++
	for _, stmt := range n.Statements {
		p.newline()
		stmt.Accept(p)
	}
	if n.Tail != nil {
		p.newline()
		p.printStatementExpr(n.Tail)
	}
	p.indent--
	p.newline()
	p.write("}")
}

// --- Statements ---

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write("let ")
	p.write(n.Pattern.String())
	if len(n.Type) > 0 {
		p.write(": ")
		p.write(n.Type.String())
	}
	if n.Value != nil {
		p.write(" = ")
		p.printExpr(n.Value, parser.LOWEST)
	}
	if n.Else != nil {
		p.write(" else ")
		p.printBlockBody(n.Else)
	}
	p.write(";")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printStatementExpr(n.Expression)
	if n.Semicolon {
		p.write(";")
	}
}

// --- Expressions ---

func (p *CodePrinter) VisitArrayExpression(n *ast.ArrayExpression) {
	p.write("[")
	p.printList(n.Elements)
	p.write("]")
}

func (p *CodePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.printExpr(n.Left, parser.ASSIGN+1)
	p.write(" = ")
	p.printExpr(n.Right, parser.ASSIGN)
}

func (p *CodePrinter) VisitAsyncExpression(n *ast.AsyncExpression) {
	p.write("async ")
	if n.Move {
		p.write("move ")
	}
	p.printBlockBody(n.Block)
}

func (p *CodePrinter) VisitAwaitExpression(n *ast.AwaitExpression) {
	p.printBase(n.Base)
	p.write(".await")
}

func (p *CodePrinter) VisitBinaryExpression(n *ast.BinaryExpression) {
	prec := parser.OperatorPrecedence(n.Operator)
	switch prec {
	case parser.ASSIGN:
		p.printExpr(n.Left, prec+1)
		p.write(" " + n.Operator + " ")
		p.printExpr(n.Right, prec)
	case parser.COMPARE:
		p.printExpr(n.Left, prec+1)
		p.write(" " + n.Operator + " ")
		p.printExpr(n.Right, prec+1)
	default:
		p.printExpr(n.Left, prec)
		p.write(" " + n.Operator + " ")
		p.printExpr(n.Right, prec+1)
	}
}

func (p *CodePrinter) VisitBlockExpression(n *ast.BlockExpression) {
	p.printLabel(n.Label)
	p.printBlockBody(n)
}

func (p *CodePrinter) VisitBreakExpression(n *ast.BreakExpression) {
	p.write("break")
	if n.Label != nil {
		p.write(" " + n.Label.Lexeme)
	}
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, parser.LOWEST)
	}
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printAttrs(n.Attrs)
	if _, ok := n.Function.(*ast.FieldExpression); ok {
		// `(a.f)(x)` calls a field; `a.f(x)` would call a method
		p.parens(n.Function)
	} else {
		p.printBase(n.Function)
	}
	p.write("(")
	p.printList(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitCastExpression(n *ast.CastExpression) {
	p.printExpr(n.Value, parser.CAST)
	p.write(" as ")
	p.write(n.Type.String())
}

func (p *CodePrinter) VisitClosureExpression(n *ast.ClosureExpression) {
	if n.Static {
		p.write("static ")
	}
	if n.Async {
		p.write("async ")
	}
	if n.Move {
		p.write("move ")
	}
	p.write("|")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Pattern.String())
		if len(param.Type) > 0 {
			p.write(": ")
			p.write(param.Type.String())
		}
	}
	p.write("| ")
	if len(n.ReturnType) > 0 {
		p.write("-> ")
		p.write(n.ReturnType.String())
		p.write(" ")
		if block, ok := n.Body.(*ast.BlockExpression); ok {
			p.printBlockBody(block)
			return
		}
	}
	p.printExpr(n.Body, parser.LOWEST)
}

func (p *CodePrinter) VisitConstExpression(n *ast.ConstExpression) {
	p.write("const ")
	p.printBlockBody(n.Block)
}

func (p *CodePrinter) VisitContinueExpression(n *ast.ContinueExpression) {
	p.write("continue")
	if n.Label != nil {
		p.write(" " + n.Label.Lexeme)
	}
}

func (p *CodePrinter) VisitFieldExpression(n *ast.FieldExpression) {
	p.printBase(n.Base)
	p.write(".")
	p.write(n.Field.Lexeme)
}

func (p *CodePrinter) VisitForExpression(n *ast.ForExpression) {
	p.printLabel(n.Label)
	p.write("for ")
	p.write(n.Pattern.String())
	p.write(" in ")
	p.printCondition(n.Iterable)
	p.write(" ")
	p.printBlockBody(n.Body)
}

func (p *CodePrinter) VisitIfExpression(n *ast.IfExpression) {
	p.write("if ")
	p.printCondition(n.Condition)
	p.write(" ")
	p.printBlockBody(n.Consequence)
	switch alt := n.Alternative.(type) {
	case nil:
	case *ast.BlockExpression:
		p.write(" else ")
		p.printBlockBody(alt)
	default:
		p.write(" else ")
		alt.Accept(p)
	}
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printBase(n.Base)
	p.write("[")
	restore := p.allowStruct()
	p.printExpr(n.Index, parser.LOWEST)
	restore()
	p.write("]")
}

func (p *CodePrinter) VisitInferExpression(n *ast.InferExpression) {
	p.write("_")
}

func (p *CodePrinter) VisitLetExpression(n *ast.LetExpression) {
	p.write("let ")
	p.write(n.Pattern.String())
	p.write(" = ")
	p.printExpr(n.Value, parser.AND+1)
}

func (p *CodePrinter) VisitLiteral(n *ast.Literal) {
	p.write(n.Token.Lexeme)
}

func (p *CodePrinter) VisitLoopExpression(n *ast.LoopExpression) {
	p.printLabel(n.Label)
	p.write("loop ")
	p.printBlockBody(n.Body)
}

var closers = map[token.TokenType]string{
	token.LPAREN:   ")",
	token.LBRACKET: "]",
	token.LBRACE:   "}",
}

func (p *CodePrinter) VisitMacroExpression(n *ast.MacroExpression) {
	p.printPath(n.Path)
	p.write("!")
	p.write(string(n.Delimiter))
	p.write(n.Body.String())
	p.write(closers[n.Delimiter])
}

func (p *CodePrinter) VisitMatchExpression(n *ast.MatchExpression) {
	p.write("match ")
	p.printCondition(n.Subject)
	if len(n.Arms) == 0 {
		p.write(" {}")
		return
	}
	restore := p.allowStruct()
	defer restore()

	p.write(" {")
	p.indent++
	for i, arm := range n.Arms {
		if i > 0 && !p.pretty {
			p.write(",")
		}
		p.newline()
		p.write(arm.Pattern.String())
		if arm.Guard != nil {
			p.write(" if ")
			p.printExpr(arm.Guard, parser.LOWEST)
		}
		p.write(" => ")
		p.printStatementExpr(arm.Body)
		if p.pretty {
			p.write(",")
		}
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *CodePrinter) VisitMethodCallExpression(n *ast.MethodCallExpression) {
	p.printAttrs(n.Attrs)
	p.printBase(n.Receiver)
	p.write(".")
	p.write(n.Method.Lexeme)
	p.printGenerics(n.Turbofish)
	p.write("(")
	p.printList(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitParenExpression(n *ast.ParenExpression) {
	p.parens(n.Inner)
}

func (p *CodePrinter) VisitPathExpression(n *ast.PathExpression) {
	p.printPath(n.Path)
}

func (p *CodePrinter) VisitRangeExpression(n *ast.RangeExpression) {
	if n.Start != nil {
		p.printExpr(n.Start, parser.RANGE+1)
	}
	if n.Inclusive {
		p.write("..=")
	} else {
		p.write("..")
	}
	if n.End != nil {
		p.printExpr(n.End, parser.RANGE+1)
	}
}

func (p *CodePrinter) VisitReferenceExpression(n *ast.ReferenceExpression) {
	p.write("&")
	if n.Mutable {
		p.write("mut ")
	}
	p.printExpr(n.Value, parser.PREFIX)
}

func (p *CodePrinter) VisitRepeatExpression(n *ast.RepeatExpression) {
	restore := p.allowStruct()
	defer restore()
	p.write("[")
	p.printExpr(n.Value, parser.LOWEST)
	p.write("; ")
	p.printExpr(n.Count, parser.LOWEST)
	p.write("]")
}

func (p *CodePrinter) VisitReturnExpression(n *ast.ReturnExpression) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, parser.LOWEST)
	}
}

func (p *CodePrinter) VisitStructExpression(n *ast.StructExpression) {
	restore := p.allowStruct()
	defer restore()

	p.printPath(n.Path)
	if len(n.Fields) == 0 && !n.HasRest {
		p.write(" {}")
		return
	}
	p.write(" { ")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name.Lexeme)
		if f.Value != nil {
			p.write(": ")
			p.printExpr(f.Value, parser.LOWEST)
		}
	}
	if n.HasRest {
		if len(n.Fields) > 0 {
			p.write(", ")
		}
		p.write("..")
		if n.Rest != nil {
			p.printExpr(n.Rest, parser.LOWEST)
		}
	}
	p.write(" }")
}

func (p *CodePrinter) VisitTryExpression(n *ast.TryExpression) {
	p.printBase(n.Value)
	p.write("?")
}

func (p *CodePrinter) VisitTryBlockExpression(n *ast.TryBlockExpression) {
	p.write("try ")
	p.printBlockBody(n.Block)
}

func (p *CodePrinter) VisitTupleExpression(n *ast.TupleExpression) {
	p.write("(")
	p.printList(n.Elements)
	if len(n.Elements) == 1 {
		p.write(",")
	}
	p.write(")")
}

func (p *CodePrinter) VisitUnaryExpression(n *ast.UnaryExpression) {
	p.write(n.Operator)
	p.printExpr(n.Right, parser.PREFIX)
}

func (p *CodePrinter) VisitUnsafeExpression(n *ast.UnsafeExpression) {
	p.write("unsafe ")
	p.printBlockBody(n.Block)
}

func (p *CodePrinter) VisitWhileExpression(n *ast.WhileExpression) {
	p.printLabel(n.Label)
	p.write("while ")
	p.printCondition(n.Condition)
	p.write(" ")
	p.printBlockBody(n.Body)
}

func (p *CodePrinter) VisitYieldExpression(n *ast.YieldExpression) {
	p.write("yield")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, parser.LOWEST)
	}
}

// Indent prefixes every line after the first with prefix, so a multi-line
// rendering can be spliced at a column.
func Indent(s, prefix string) string {
	if prefix == "" || !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
