package parser

import (
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/pipeline"
	"github.com/funvibe/thread/internal/token"
)

// ParserProcessor parses ctx.TokenStream as a single standalone expression
// into ctx.AstRoot. The expander runs it over rendered output to check
// that every expansion is well formed.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	expr, err := ParseFull(ctx.TokenStream)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err.WithFile(ctx.FilePath))
		return ctx
	}
	ctx.AstRoot = expr
	return ctx
}
