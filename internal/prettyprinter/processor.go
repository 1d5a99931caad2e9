package prettyprinter

import (
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/pipeline"
	"github.com/funvibe/thread/internal/token"
)

// PrinterProcessor renders ctx.AstRoot into ctx.Output.
type PrinterProcessor struct{}

func (pp *PrinterProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "printer: nothing to render")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	if ctx.Config().Pretty {
		ctx.Output = PrintPretty(ctx.AstRoot)
	} else {
		ctx.Output = Print(ctx.AstRoot)
	}
	return ctx
}
