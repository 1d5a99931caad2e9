package thread

import (
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/pipeline"
	"github.com/funvibe/thread/internal/token"
)

// ExpandProcessor rewrites ctx.TokenStream into ctx.AstRoot using the
// options from ctx.Config().
type ExpandProcessor struct{}

func (ep *ExpandProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "thread: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	expr, err := Expand(ctx.TokenStream, OptionsFrom(ctx.Config()))
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.AstRoot = expr
	return ctx
}
