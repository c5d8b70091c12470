package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Cortexa-LLC/mcp/src/docxtext/config"
)

// TextExtractor is the surface the CLI and the MCP server depend on.
type TextExtractor interface {
	ExtractFile(ctx context.Context, filePath string) (string, error)
	ExtractURI(ctx context.Context, uri string) (string, error)
	Info(ctx context.Context) string
}

// Ensure Extractor implements TextExtractor.
var _ TextExtractor = (*Extractor)(nil)

// Extractor applies size limits and input resolution around ExtractDOCX.
// file:// URIs are resolved to local paths; http(s) URLs are downloaded into
// memory first. An Extractor is safe for concurrent use.
type Extractor struct {
	cfg    *config.Config
	client *http.Client
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(x *Extractor) { x.logger = l }
}

// WithHTTPClient sets the client used to download http(s) inputs.
func WithHTTPClient(c *http.Client) Option {
	return func(x *Extractor) { x.client = c }
}

// NewExtractor creates an Extractor. A nil cfg loads configuration from the
// environment.
func NewExtractor(cfg *config.Config, opts ...Option) *Extractor {
	if cfg == nil {
		cfg = config.Load()
	}
	x := &Extractor{
		cfg:    cfg,
		client: http.DefaultClient,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractFile extracts the paragraph text of a local DOCX file.
func (x *Extractor) ExtractFile(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	begin := time.Now()

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return "", fmt.Errorf("stat %s: %w", filePath, err)
	}
	if info.Size() > x.cfg.MaxFileSizeBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), x.cfg.MaxFileSizeBytes)
	}

	paras, err := docxFileParagraphs(filePath, x.cfg.MaxEntryBytes)
	if err != nil {
		return "", err
	}
	return x.finish(paras, "path", filePath, begin), nil
}

// ExtractURI extracts the paragraph text of the DOCX addressed by uri.
// Supported schemes: file://, http://, https://
func (x *Extractor) ExtractURI(ctx context.Context, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %s", uri)
	}

	switch u.Scheme {
	case "file":
		return x.ExtractFile(ctx, u.Path)
	case "http", "https":
		begin := time.Now()
		data, err := x.fetch(ctx, uri)
		if err != nil {
			return "", err
		}
		paras, err := docxBytesParagraphs(data, x.cfg.MaxEntryBytes)
		if err != nil {
			return "", fmt.Errorf("%s: %w", uri, err)
		}
		return x.finish(paras, "url", uri, begin), nil
	default:
		return "", fmt.Errorf("%w: %q (expected file, http, or https)", ErrUnsupportedScheme, u.Scheme)
	}
}

func (x *Extractor) finish(paras []string, srcKey, src string, begin time.Time) string {
	text := strings.Join(paras, paragraphSep)
	x.logger.Debug("extracted docx",
		srcKey, src,
		"paragraphs", len(paras),
		"bytes", len(text),
		"duration", time.Since(begin),
	)
	return text
}

// Info returns a Markdown summary of accepted inputs and active configuration.
func (x *Extractor) Info(_ context.Context) string {
	return fmt.Sprintf(`# docxtext Extraction Info

## Input
- DOCX (word/document.xml body paragraphs)
- Local path, file:// URI, or http:// / https:// URL

## Output
- One line per paragraph with text, runs joined by a space
- Paragraphs separated by a blank line

## Configuration
- Max file size: %d MB
- Max document body size: %d MB
- Fetch timeout: %s`,
		x.cfg.MaxFileSizeMB(),
		x.cfg.MaxEntryBytes>>20,
		x.cfg.FetchTimeout,
	)
}
