package main

import (
	"context"
	"log/slog"

	"github.com/Cortexa-LLC/mcp/src/docxtext/extractor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCP tool parameter key constants — shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argURI = "uri"
)

// MCP tool names.
const (
	toolExtract = "extract_docx_text"
	toolInfo    = "get_extraction_info"
)

// registerTools binds MCP tool definitions to their handlers.
// It accepts the TextExtractor interface so tests can inject a mock.
func registerTools(s *server.MCPServer, x extractor.TextExtractor, logger *slog.Logger) {
	// extract_docx_text — paragraph text of a DOCX path or URL
	s.AddTool(
		mcp.NewTool(toolExtract,
			mcp.WithDescription("Extract the paragraph text of a DOCX document. "+
				"Pass an absolute file path (e.g. /path/to/report.docx), a file:// URI, or an http:// / https:// URL. "+
				"Paragraphs are separated by a blank line; runs within a paragraph are joined by a space."),
			mcp.WithString(argURI,
				mcp.Required(),
				mcp.Description("Absolute file path or file/http/https URI of the .docx"),
			),
		),
		extractHandler(x, logger),
	)

	// get_extraction_info — accepted inputs and configuration
	s.AddTool(
		mcp.NewTool(toolInfo,
			mcp.WithDescription("Return accepted inputs, output layout, and active configuration."),
		),
		infoHandler(x),
	)
}

func extractHandler(x extractor.TextExtractor, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, ok := req.Params.Arguments[argURI].(string)
		if !ok || input == "" {
			return mcp.NewToolResultError(argURI + " is required"), nil
		}
		text, err := extractInput(ctx, x, input)
		if err != nil {
			logger.Warn("extraction failed", "tool", toolExtract, "uri", input, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		logger.Info("extraction done", "tool", toolExtract, "uri", input, "bytes", len(text))
		return mcp.NewToolResultText(text), nil
	}
}

func infoHandler(x extractor.TextExtractor) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(x.Info(ctx)), nil
	}
}
