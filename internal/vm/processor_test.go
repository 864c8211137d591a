package vm

import (
	"bytes"
	"testing"

	"github.com/vira-language/vira/internal/config"
	"github.com/vira-language/vira/internal/lexer"
	"github.com/vira-language/vira/internal/parser"
	"github.com/vira-language/vira/internal/pipeline"
)

func fullPipeline() *pipeline.Pipeline {
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&CompilerProcessor{Config: config.Default()},
	)
}

func TestPipeline_SourceToArtifactToOutput(t *testing.T) {
	ctx := fullPipeline().Run(&pipeline.PipelineContext{
		FilePath: "main.vira",
		Source: `
:std:;
def square(n) { n * n; }
let x = 7;
write square(x);
`,
	})
	if ctx.HasErrors() {
		t.Fatalf("pipeline error: %s", ctx.Errors[0])
	}
	if len(ctx.Artifact) == 0 {
		t.Fatal("no artifact produced")
	}

	program, err := Decode(ctx.Artifact)
	if err != nil {
		t.Fatalf("decode error: %s", err)
	}
	var out bytes.Buffer
	machine := New(program)
	machine.SetOutput(&out)
	if rerr := machine.Run(); rerr != nil {
		t.Fatalf("runtime error: %s", rerr)
	}
	if out.String() != "49\n" {
		t.Errorf("output %q, want %q", out.String(), "49\n")
	}
}

func TestPipeline_LexError_SkipsLaterStages(t *testing.T) {
	ctx := fullPipeline().Run(&pipeline.PipelineContext{
		FilePath: "bad.vira",
		Source:   `write "unterminated;`,
	})
	if !ctx.HasErrors() {
		t.Fatal("expected errors")
	}
	if ctx.Errors[0].Code != "L001" {
		t.Errorf("code = %s, want L001", ctx.Errors[0].Code)
	}
	if ctx.Artifact != nil {
		t.Error("artifact produced despite errors")
	}
	if ctx.Errors[0].File != "bad.vira" {
		t.Errorf("file = %q, want bad.vira", ctx.Errors[0].File)
	}
}

func TestPipeline_CompileError_CarriesFile(t *testing.T) {
	ctx := fullPipeline().Run(&pipeline.PipelineContext{
		FilePath: "imports.vira",
		Source:   `:sorcery:;`,
	})
	if !ctx.HasErrors() {
		t.Fatal("expected errors")
	}
	if ctx.Errors[0].Code != "C002" {
		t.Errorf("code = %s, want C002", ctx.Errors[0].Code)
	}
	if ctx.Errors[0].File != "imports.vira" {
		t.Errorf("file = %q, want imports.vira", ctx.Errors[0].File)
	}
}
