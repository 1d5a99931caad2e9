package ast

import (
	"github.com/funvibe/thread/internal/token"
)

// ArrayExpression represents an array literal, e.g. [a, b, c]
type ArrayExpression struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (ae *ArrayExpression) Accept(v Visitor)      { v.VisitArrayExpression(ae) }
func (ae *ArrayExpression) expressionNode()       {}
func (ae *ArrayExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *ArrayExpression) GetToken() token.Token { return ae.Token }

// AssignExpression represents a plain assignment, e.g. a = b
type AssignExpression struct {
	Token token.Token // The '=' token
	Left  Expression
	Right Expression
}

func (ae *AssignExpression) Accept(v Visitor)      { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// AsyncExpression represents an async block, e.g. async move { ... }
type AsyncExpression struct {
	Token token.Token // The 'async' token
	Move  bool
	Block *BlockExpression
}

func (ae *AsyncExpression) Accept(v Visitor)      { v.VisitAsyncExpression(ae) }
func (ae *AsyncExpression) expressionNode()       {}
func (ae *AsyncExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AsyncExpression) GetToken() token.Token { return ae.Token }

// AwaitExpression represents fut.await
type AwaitExpression struct {
	Token token.Token // The 'await' token
	Base  Expression
}

func (ae *AwaitExpression) Accept(v Visitor)      { v.VisitAwaitExpression(ae) }
func (ae *AwaitExpression) expressionNode()       {}
func (ae *AwaitExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AwaitExpression) GetToken() token.Token { return ae.Token }

// BinaryExpression represents an infix operation, including compound
// assignment, e.g. a + b or a += b
type BinaryExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) Accept(v Visitor)      { v.VisitBinaryExpression(be) }
func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// BlockExpression represents a block, e.g. { let a = 1; a }
type BlockExpression struct {
	Token      token.Token // The '{' token
	Label      *token.Token
	Statements []Statement
	Tail       Expression // trailing expression without ';', may be nil
}

func (be *BlockExpression) Accept(v Visitor)      { v.VisitBlockExpression(be) }
func (be *BlockExpression) expressionNode()       {}
func (be *BlockExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token { return be.Token }

// BreakExpression represents break 'label value
type BreakExpression struct {
	Token token.Token // The 'break' token
	Label *token.Token
	Value Expression
}

func (be *BreakExpression) Accept(v Visitor)      { v.VisitBreakExpression(be) }
func (be *BreakExpression) expressionNode()       {}
func (be *BreakExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BreakExpression) GetToken() token.Token { return be.Token }

// CallExpression represents a function call, e.g. f(x, y)
type CallExpression struct {
	Token     token.Token // The '(' token
	Attrs     []Attribute
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// CastExpression represents x as T
type CastExpression struct {
	Token token.Token // The 'as' token
	Value Expression
	Type  Tokens
}

func (ce *CastExpression) Accept(v Visitor)      { v.VisitCastExpression(ce) }
func (ce *CastExpression) expressionNode()       {}
func (ce *CastExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CastExpression) GetToken() token.Token { return ce.Token }

// ClosureParam is one closure parameter: a pattern with an optional type.
type ClosureParam struct {
	Pattern Tokens
	Type    Tokens
}

// ClosureExpression represents |a, b: T| body
type ClosureExpression struct {
	Token      token.Token // The first '|' (or '||') token
	Static     bool
	Async      bool
	Move       bool
	Params     []ClosureParam
	ReturnType Tokens
	Body       Expression
}

func (ce *ClosureExpression) Accept(v Visitor)      { v.VisitClosureExpression(ce) }
func (ce *ClosureExpression) expressionNode()       {}
func (ce *ClosureExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ClosureExpression) GetToken() token.Token { return ce.Token }

// ConstExpression represents a const block, e.g. const { N * 2 }
type ConstExpression struct {
	Token token.Token // The 'const' token
	Block *BlockExpression
}

func (ce *ConstExpression) Accept(v Visitor)      { v.VisitConstExpression(ce) }
func (ce *ConstExpression) expressionNode()       {}
func (ce *ConstExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConstExpression) GetToken() token.Token { return ce.Token }

// ContinueExpression represents continue 'label
type ContinueExpression struct {
	Token token.Token // The 'continue' token
	Label *token.Token
}

func (ce *ContinueExpression) Accept(v Visitor)      { v.VisitContinueExpression(ce) }
func (ce *ContinueExpression) expressionNode()       {}
func (ce *ContinueExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ContinueExpression) GetToken() token.Token { return ce.Token }

// FieldExpression represents base.field or tuple.0
type FieldExpression struct {
	Token token.Token // The '.' token
	Base  Expression
	Field token.Token
}

func (fe *FieldExpression) Accept(v Visitor)      { v.VisitFieldExpression(fe) }
func (fe *FieldExpression) expressionNode()       {}
func (fe *FieldExpression) TokenLiteral() string  { return fe.Token.Lexeme }
func (fe *FieldExpression) GetToken() token.Token { return fe.Token }

// ForExpression represents for pat in iter { ... }
type ForExpression struct {
	Token    token.Token // The 'for' token
	Label    *token.Token
	Pattern  Tokens
	Iterable Expression
	Body     *BlockExpression
}

func (fe *ForExpression) Accept(v Visitor)      { v.VisitForExpression(fe) }
func (fe *ForExpression) expressionNode()       {}
func (fe *ForExpression) TokenLiteral() string  { return fe.Token.Lexeme }
func (fe *ForExpression) GetToken() token.Token { return fe.Token }

// IfExpression represents if cond { ... } else { ... }
type IfExpression struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockExpression
	Alternative Expression // *BlockExpression, *IfExpression or nil
}

func (ie *IfExpression) Accept(v Visitor)      { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Base  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// InferExpression represents the placeholder _ in expression position
type InferExpression struct {
	Token token.Token
}

func (ie *InferExpression) Accept(v Visitor)      { v.VisitInferExpression(ie) }
func (ie *InferExpression) expressionNode()       {}
func (ie *InferExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InferExpression) GetToken() token.Token { return ie.Token }

// LetExpression represents let pat = value inside if/while conditions
type LetExpression struct {
	Token   token.Token // The 'let' token
	Pattern Tokens
	Value   Expression
}

func (le *LetExpression) Accept(v Visitor)      { v.VisitLetExpression(le) }
func (le *LetExpression) expressionNode()       {}
func (le *LetExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LetExpression) GetToken() token.Token { return le.Token }

// Literal represents any literal token: numbers, strings, chars, bytes, booleans
type Literal struct {
	Token token.Token
}

func (l *Literal) Accept(v Visitor)      { v.VisitLiteral(l) }
func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token { return l.Token }

// LoopExpression represents loop { ... }
type LoopExpression struct {
	Token token.Token // The 'loop' token
	Label *token.Token
	Body  *BlockExpression
}

func (le *LoopExpression) Accept(v Visitor)      { v.VisitLoopExpression(le) }
func (le *LoopExpression) expressionNode()       {}
func (le *LoopExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LoopExpression) GetToken() token.Token { return le.Token }

// MacroExpression represents a macro invocation, e.g. vec![1, 2]
// The body is kept verbatim.
type MacroExpression struct {
	Token     token.Token // The '!' token
	Path      *Path
	Delimiter token.TokenType // LPAREN, LBRACKET or LBRACE
	Body      Tokens
}

func (me *MacroExpression) Accept(v Visitor)      { v.VisitMacroExpression(me) }
func (me *MacroExpression) expressionNode()       {}
func (me *MacroExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MacroExpression) GetToken() token.Token { return me.Token }

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Pattern Tokens
	Guard   Expression
	Body    Expression
}

// MatchExpression represents match subject { arms }
type MatchExpression struct {
	Token   token.Token // The 'match' token
	Subject Expression
	Arms    []MatchArm
}

func (me *MatchExpression) Accept(v Visitor)      { v.VisitMatchExpression(me) }
func (me *MatchExpression) expressionNode()       {}
func (me *MatchExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token { return me.Token }

// MethodCallExpression represents receiver.method::<T>(args)
type MethodCallExpression struct {
	Token     token.Token // The '.' token
	Attrs     []Attribute
	Receiver  Expression
	Method    token.Token
	Turbofish *GenericArgs
	Arguments []Expression
}

func (mc *MethodCallExpression) Accept(v Visitor)      { v.VisitMethodCallExpression(mc) }
func (mc *MethodCallExpression) expressionNode()       {}
func (mc *MethodCallExpression) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MethodCallExpression) GetToken() token.Token { return mc.Token }

// ParenExpression represents a parenthesized expression, e.g. (a + b)
type ParenExpression struct {
	Token token.Token // The '(' token
	Inner Expression
}

func (pe *ParenExpression) Accept(v Visitor)      { v.VisitParenExpression(pe) }
func (pe *ParenExpression) expressionNode()       {}
func (pe *ParenExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *ParenExpression) GetToken() token.Token { return pe.Token }

// PathExpression represents a path such as x, std::mem::take or Vec::<u8>::new
type PathExpression struct {
	Token token.Token // The first token of the path
	Path  *Path
}

func (pe *PathExpression) Accept(v Visitor)      { v.VisitPathExpression(pe) }
func (pe *PathExpression) expressionNode()       {}
func (pe *PathExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PathExpression) GetToken() token.Token { return pe.Token }

// RangeExpression represents a..b, a..=b, ..b, a.. and ..
type RangeExpression struct {
	Token     token.Token // The '..' or '..=' token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (re *RangeExpression) Accept(v Visitor)      { v.VisitRangeExpression(re) }
func (re *RangeExpression) expressionNode()       {}
func (re *RangeExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *RangeExpression) GetToken() token.Token { return re.Token }

// ReferenceExpression represents &x or &mut x
type ReferenceExpression struct {
	Token   token.Token // The '&' token
	Mutable bool
	Value   Expression
}

func (re *ReferenceExpression) Accept(v Visitor)      { v.VisitReferenceExpression(re) }
func (re *ReferenceExpression) expressionNode()       {}
func (re *ReferenceExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *ReferenceExpression) GetToken() token.Token { return re.Token }

// RepeatExpression represents [value; count]
type RepeatExpression struct {
	Token token.Token // The '[' token
	Value Expression
	Count Expression
}

func (re *RepeatExpression) Accept(v Visitor)      { v.VisitRepeatExpression(re) }
func (re *RepeatExpression) expressionNode()       {}
func (re *RepeatExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *RepeatExpression) GetToken() token.Token { return re.Token }

// ReturnExpression represents return value
type ReturnExpression struct {
	Token token.Token // The 'return' token
	Value Expression
}

func (re *ReturnExpression) Accept(v Visitor)      { v.VisitReturnExpression(re) }
func (re *ReturnExpression) expressionNode()       {}
func (re *ReturnExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *ReturnExpression) GetToken() token.Token { return re.Token }

// FieldValue is one field initializer of a struct literal. Value is nil for
// the shorthand form `Point { x }`.
type FieldValue struct {
	Name  token.Token
	Value Expression
}

// StructExpression represents Path { a: 1, b, ..rest }
type StructExpression struct {
	Token   token.Token // The '{' token
	Path    *Path
	Fields  []FieldValue
	HasRest bool
	Rest    Expression // may be nil even with HasRest (`..`)
}

func (se *StructExpression) Accept(v Visitor)      { v.VisitStructExpression(se) }
func (se *StructExpression) expressionNode()       {}
func (se *StructExpression) TokenLiteral() string  { return se.Token.Lexeme }
func (se *StructExpression) GetToken() token.Token { return se.Token }

// TryExpression represents the ? operator, e.g. f()?
type TryExpression struct {
	Token token.Token // The '?' token
	Value Expression
}

func (te *TryExpression) Accept(v Visitor)      { v.VisitTryExpression(te) }
func (te *TryExpression) expressionNode()       {}
func (te *TryExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TryExpression) GetToken() token.Token { return te.Token }

// TryBlockExpression represents try { ... }
type TryBlockExpression struct {
	Token token.Token // The 'try' token
	Block *BlockExpression
}

func (tb *TryBlockExpression) Accept(v Visitor)      { v.VisitTryBlockExpression(tb) }
func (tb *TryBlockExpression) expressionNode()       {}
func (tb *TryBlockExpression) TokenLiteral() string  { return tb.Token.Lexeme }
func (tb *TryBlockExpression) GetToken() token.Token { return tb.Token }

// TupleExpression represents (a, b), (a,) and ()
type TupleExpression struct {
	Token    token.Token // The '(' token
	Elements []Expression
}

func (te *TupleExpression) Accept(v Visitor)      { v.VisitTupleExpression(te) }
func (te *TupleExpression) expressionNode()       {}
func (te *TupleExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleExpression) GetToken() token.Token { return te.Token }

// UnaryExpression represents !x, -x and *x
type UnaryExpression struct {
	Token    token.Token // The operator token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) Accept(v Visitor)      { v.VisitUnaryExpression(ue) }
func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// UnsafeExpression represents unsafe { ... }
type UnsafeExpression struct {
	Token token.Token // The 'unsafe' token
	Block *BlockExpression
}

func (ue *UnsafeExpression) Accept(v Visitor)      { v.VisitUnsafeExpression(ue) }
func (ue *UnsafeExpression) expressionNode()       {}
func (ue *UnsafeExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnsafeExpression) GetToken() token.Token { return ue.Token }

// WhileExpression represents while cond { ... }
type WhileExpression struct {
	Token     token.Token // The 'while' token
	Label     *token.Token
	Condition Expression
	Body      *BlockExpression
}

func (we *WhileExpression) Accept(v Visitor)      { v.VisitWhileExpression(we) }
func (we *WhileExpression) expressionNode()       {}
func (we *WhileExpression) TokenLiteral() string  { return we.Token.Lexeme }
func (we *WhileExpression) GetToken() token.Token { return we.Token }

// YieldExpression represents yield value
type YieldExpression struct {
	Token token.Token // The 'yield' token
	Value Expression
}

func (ye *YieldExpression) Accept(v Visitor)      { v.VisitYieldExpression(ye) }
func (ye *YieldExpression) expressionNode()       {}
func (ye *YieldExpression) TokenLiteral() string  { return ye.Token.Lexeme }
func (ye *YieldExpression) GetToken() token.Token { return ye.Token }
