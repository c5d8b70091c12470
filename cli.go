package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/docxtext/config"
	"github.com/Cortexa-LLC/mcp/src/docxtext/extractor"
	"github.com/alecthomas/kong"
	"github.com/mark3labs/mcp-go/server"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *config.Config
	Logger    *slog.Logger
	Extractor extractor.TextExtractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string           `type:"path" env:"DOCXTEXT_CONFIG" help:"YAML config file"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Extract ExtractCmd `cmd:"" help:"Print the paragraph text of a DOCX document"`
	Info    InfoCmd    `cmd:"" help:"Show accepted inputs and active configuration"`
	Serve   ServeCmd   `cmd:"" help:"Run the MCP tool server on stdio"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Input  string `arg:"" name:"input" help:"DOCX path, file:// URI, or http(s):// URL"`
	Output string `short:"o" type:"path" help:"Write text to this file instead of stdout"`
}

// Run extracts the input and prints the text followed by a newline.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	text, err := extractInput(deps.Ctx, deps.Extractor, c.Input)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.Output, err)
		}
		return nil
	}

	_, err = fmt.Fprintln(deps.Stdout, text)
	return err
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct{}

// Run prints the extractor info.
func (c *InfoCmd) Run(deps *Dependencies) error {
	_, err := fmt.Fprintln(deps.Stdout, deps.Extractor.Info(deps.Ctx))
	return err
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// Run serves the MCP tools over stdin/stdout until the input is closed.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := server.NewMCPServer(programName, programVersion)
	registerTools(s, deps.Extractor, deps.Logger)

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(deps.Stderr, "", log.LstdFlags))

	deps.Logger.Info("serving MCP on stdio", "version", programVersion)
	if err := stdio.Listen(deps.Ctx, deps.Stdin, deps.Stdout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// extractInput routes URIs to ExtractURI and everything else to ExtractFile.
func extractInput(ctx context.Context, x extractor.TextExtractor, input string) (string, error) {
	if strings.Contains(input, "://") {
		return x.ExtractURI(ctx, input)
	}
	return x.ExtractFile(ctx, input)
}
