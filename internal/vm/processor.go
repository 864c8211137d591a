package vm

import (
	"github.com/vira-language/vira/internal/config"
	"github.com/vira-language/vira/internal/pipeline"
)

// CompilerProcessor is the final compile-pipeline stage: it turns the AST
// into an encoded binary artifact.
type CompilerProcessor struct {
	Config *config.Config
}

func (cp *CompilerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	c := NewCompiler(cp.Config)
	program, errs := c.Compile(ctx.AstRoot)
	if len(errs) > 0 {
		for _, err := range errs {
			if err.File == "" {
				err.File = ctx.FilePath
			}
		}
		ctx.Errors = append(ctx.Errors, errs...)
		return ctx
	}

	encoded, err := Encode(program)
	if err != nil {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	ctx.Artifact = encoded
	return ctx
}
