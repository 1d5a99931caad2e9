package lexer

import (
	"github.com/funvibe/thread/internal/pipeline"
)

// LexerProcessor tokenizes ctx.SourceCode into ctx.TokenStream.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, errs := Tokenize(ctx.SourceCode)
	ctx.TokenStream = tokens
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}
