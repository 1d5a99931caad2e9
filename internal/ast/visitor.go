package ast

// Visitor has one method per node type.
type Visitor interface {
	VisitLetStatement(n *LetStatement)
	VisitExpressionStatement(n *ExpressionStatement)

	VisitArrayExpression(n *ArrayExpression)
	VisitAssignExpression(n *AssignExpression)
	VisitAsyncExpression(n *AsyncExpression)
	VisitAwaitExpression(n *AwaitExpression)
	VisitBinaryExpression(n *BinaryExpression)
	VisitBlockExpression(n *BlockExpression)
	VisitBreakExpression(n *BreakExpression)
	VisitCallExpression(n *CallExpression)
	VisitCastExpression(n *CastExpression)
	VisitClosureExpression(n *ClosureExpression)
	VisitConstExpression(n *ConstExpression)
	VisitContinueExpression(n *ContinueExpression)
	VisitFieldExpression(n *FieldExpression)
	VisitForExpression(n *ForExpression)
	VisitIfExpression(n *IfExpression)
	VisitIndexExpression(n *IndexExpression)
	VisitInferExpression(n *InferExpression)
	VisitLetExpression(n *LetExpression)
	VisitLiteral(n *Literal)
	VisitLoopExpression(n *LoopExpression)
	VisitMacroExpression(n *MacroExpression)
	VisitMatchExpression(n *MatchExpression)
	VisitMethodCallExpression(n *MethodCallExpression)
	VisitParenExpression(n *ParenExpression)
	VisitPathExpression(n *PathExpression)
	VisitRangeExpression(n *RangeExpression)
	VisitReferenceExpression(n *ReferenceExpression)
	VisitRepeatExpression(n *RepeatExpression)
	VisitReturnExpression(n *ReturnExpression)
	VisitStructExpression(n *StructExpression)
	VisitTryExpression(n *TryExpression)
	VisitTryBlockExpression(n *TryBlockExpression)
	VisitTupleExpression(n *TupleExpression)
	VisitUnaryExpression(n *UnaryExpression)
	VisitUnsafeExpression(n *UnsafeExpression)
	VisitWhileExpression(n *WhileExpression)
	VisitYieldExpression(n *YieldExpression)
}
