// Package pipeline chains the toolchain stages (lex, parse, compile) and
// collects their diagnostics in one place.
package pipeline

import (
	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/token"
)

// PipelineContext carries the evolving state of one compilation.
type PipelineContext struct {
	FilePath string
	Source   string

	Tokens  []token.Token
	AstRoot *ast.Program

	// Artifact is the encoded bytecode produced by the compiler stage.
	Artifact []byte

	Errors []*diagnostics.Error
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages after a failure still run so that all
// diagnostics are collected, but each stage skips real work when its input
// is missing.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
