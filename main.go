package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Cortexa-LLC/mcp/src/docxtext/config"
	"github.com/Cortexa-LLC/mcp/src/docxtext/extractor"
	"github.com/alecthomas/kong"
)

// Program identity constants, shared by the CLI and the MCP server.
const (
	programName    = "docxtext"
	programVersion = "0.1.0"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds the MCP server in serve mode.
	Stdin io.Reader

	// Extractor overrides the configured extractor. Used by tests.
	Extractor extractor.TextExtractor
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Filled in after parsing; Kong hands the same pointer to Run methods.
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(programName),
		kong.Description("Extract paragraph text from DOCX documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"version": programVersion},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run '%s --help' to see available commands", programName)
	}

	if args[0] == "help" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Kong cannot exit after printing help or the version, so the parse
	// error that follows is dropped.
	if wantsHelpOrVersion(args) {
		_, _ = parser.Parse(args)
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(cli.Config)
	if err != nil {
		return err
	}
	if cli.Verbose {
		cfg.LogLevel = "debug"
	}

	// stdout carries extracted text or MCP frames, so logs go to stderr.
	deps.Config = cfg
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	deps.Extractor = m.Extractor
	if deps.Extractor == nil {
		deps.Extractor = extractor.NewExtractor(cfg, extractor.WithLogger(deps.Logger))
	}

	return kongCtx.Run(deps)
}

// wantsHelpOrVersion reports whether args ask for help or the version before
// any "--" terminator.
func wantsHelpOrVersion(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-h", "--help", "--version":
			return true
		}
	}
	return false
}
