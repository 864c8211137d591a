package lexer

import (
	"github.com/vira-language/vira/internal/pipeline"
)

// LexerProcessor is the tokenization stage of the compile pipeline.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, errs := Tokenize(ctx.Source)
	ctx.Tokens = tokens

	for _, err := range errs {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
