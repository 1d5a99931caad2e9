package pipeline

import "fmt"

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage depends on the output of the one
// before it, so the run stops at the first stage that reports errors.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Trace != nil {
			fmt.Fprintf(ctx.Trace, "[pipeline] %T: %d error(s)\n", processor, len(ctx.Errors))
		}
		if len(ctx.Errors) > 0 {
			break
		}
	}
	for _, err := range ctx.Errors {
		err.WithFile(ctx.FilePath)
	}
	return ctx
}
