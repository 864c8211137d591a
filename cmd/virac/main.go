package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vira-language/vira/internal/config"
	"github.com/vira-language/vira/internal/lexer"
	"github.com/vira-language/vira/internal/parser"
	"github.com/vira-language/vira/internal/pipeline"
	"github.com/vira-language/vira/internal/vm"
)

var (
	outputPath string
	configPath string
	verbose    bool
)

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}

	rootCmd := &cobra.Command{
		Use:   "virac",
		Short: "Vira compiler toolchain",
	}

	compileCmd := &cobra.Command{
		Use:   "compile <input" + config.SourceFileExt + ">",
		Short: "Compile a source file to a binary artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0])
		},
	}
	compileCmd.Flags().StringVarP(&outputPath, "output", "o", "", "artifact output path")
	compileCmd.Flags().StringVar(&configPath, "config", "", "path to vira.yaml")
	compileCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	disasmCmd := &cobra.Command{
		Use:   "disasm <artifact>",
		Short: "Print the disassembly of a compiled artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(args[0])
		},
	}

	rootCmd.AddCommand(compileCmd, disasmCmd)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func newLogger() *slog.Logger {
	ptermLogger := pterm.DefaultLogger
	if verbose {
		ptermLogger.Level = pterm.LogLevelDebug
	} else {
		ptermLogger.Level = pterm.LogLevelWarn
	}
	return slog.New(pterm.NewSlogHandler(&ptermLogger))
}

func runCompile(inputFile string) error {
	log := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if !isSourceFile(inputFile) {
		pterm.Warning.Printfln("%s does not have a recognized source extension %v",
			inputFile, config.SourceFileExtensions)
	}

	source, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}

	start := time.Now()
	ctx := &pipeline.PipelineContext{
		FilePath: inputFile,
		Source:   string(source),
	}
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&vm.CompilerProcessor{Config: cfg},
	)
	ctx = p.Run(ctx)

	if ctx.HasErrors() {
		for _, diag := range ctx.Errors {
			fmt.Fprintln(os.Stderr, diag.Render(ctx.Source))
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(ctx.Errors))
	}

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + cfg.Output.Extension
	}
	if err := os.WriteFile(out, ctx.Artifact, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	log.Debug("compiled",
		"input", inputFile,
		"output", out,
		"artifactBytes", len(ctx.Artifact),
		"elapsed", time.Since(start).String())
	pterm.Success.Printfln("%s -> %s (%d bytes)", inputFile, out, len(ctx.Artifact))
	return nil
}

func runDisasm(artifactFile string) error {
	data, err := os.ReadFile(artifactFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", artifactFile, err)
	}

	program, derr := vm.Decode(data)
	if derr != nil {
		return derr
	}

	fmt.Print(vm.Disassemble(program))
	return nil
}
