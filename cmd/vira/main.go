package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vira-language/vira/internal/vm"
)

var verbose bool

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}

	rootCmd := &cobra.Command{
		Use:   "vira",
		Short: "Vira bytecode runtime",
	}

	runCmd := &cobra.Command{
		Use:   "run <artifact>",
		Short: "Execute a compiled artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArtifact(args[0])
		},
	}
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func runArtifact(artifactFile string) error {
	ptermLogger := pterm.DefaultLogger
	if verbose {
		ptermLogger.Level = pterm.LogLevelDebug
	} else {
		ptermLogger.Level = pterm.LogLevelWarn
	}
	log := slog.New(pterm.NewSlogHandler(&ptermLogger))

	data, err := os.ReadFile(artifactFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", artifactFile, err)
	}

	program, derr := vm.Decode(data)
	if derr != nil {
		return derr
	}
	log.Debug("decoded artifact",
		"file", artifactFile,
		"functions", len(program.Functions),
		"mainBytes", len(program.Main))

	start := time.Now()
	machine := vm.New(program)
	if rerr := machine.Run(); rerr != nil {
		return rerr
	}
	log.Debug("finished", "elapsed", time.Since(start).String())
	return nil
}
