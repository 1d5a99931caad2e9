package pipeline

import (
	"io"

	"github.com/funvibe/thread/internal/ast"
	"github.com/funvibe/thread/internal/config"
	"github.com/funvibe/thread/internal/diagnostics"
	"github.com/funvibe/thread/internal/token"
)

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one macro body through the stages.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream []token.Token
	AstRoot     ast.Expression
	Output      string

	// Settings may be nil, in which case stages use config.Default().
	Settings *config.Settings

	// Trace receives stage traces when non-nil.
	Trace io.Writer

	Errors []*diagnostics.DiagnosticError
}

// Config returns the context's settings, falling back to the defaults.
func (ctx *PipelineContext) Config() *config.Settings {
	if ctx.Settings == nil {
		return config.Default()
	}
	return ctx.Settings
}
