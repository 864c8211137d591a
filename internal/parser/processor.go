package parser

import (
	"github.com/vira-language/vira/internal/pipeline"
)

// ParserProcessor is the parse stage of the compile pipeline. It assumes
// the lexer already ran; without tokens it does nothing.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil || ctx.HasErrors() {
		return ctx
	}

	p := New(ctx.Tokens, ctx)
	ctx.AstRoot = p.ParseProgram()
	if ctx.AstRoot != nil {
		ctx.AstRoot.File = ctx.FilePath
	}

	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}

	return ctx
}
