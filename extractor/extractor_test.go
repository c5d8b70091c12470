package extractor

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Cortexa-LLC/mcp/src/docxtext/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxFileSizeBytes: config.DefaultMaxFileBytes,
		MaxEntryBytes:    config.DefaultMaxEntryBytes,
		FetchTimeout:     5 * time.Second,
		LogLevel:         "debug",
	}
}

func newTestExtractor(opts ...Option) *Extractor {
	return NewExtractor(testConfig(), opts...)
}

// serveBytes starts an httptest server that answers every request with body.
func serveBytes(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---- ExtractFile -----------------------------------------------------------

func TestExtractor_ExtractFile(t *testing.T) {
	path := makeDocx(t,
		`<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>`)

	out, err := newTestExtractor().ExtractFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Hello world\n\nSecond paragraph.", out)
}

func TestExtractor_ExtractFile_NotFound(t *testing.T) {
	_, err := newTestExtractor().ExtractFile(context.Background(), "/no/such/file.docx")

	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestExtractor_ExtractFile_TooLarge(t *testing.T) {
	path := makeDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)

	// Override the limit to 1 byte so any real archive triggers the check.
	cfg := testConfig()
	cfg.MaxFileSizeBytes = 1

	_, err := NewExtractor(cfg).ExtractFile(context.Background(), path)

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractor_ExtractFile_EntryTooLarge(t *testing.T) {
	path := makeDocx(t, `<w:p><w:r><w:t>a body well over eight bytes</w:t></w:r></w:p>`)

	cfg := testConfig()
	cfg.MaxEntryBytes = 8

	_, err := NewExtractor(cfg).ExtractFile(context.Background(), path)

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractor_ExtractFile_Errors(t *testing.T) {
	x := newTestExtractor()
	ctx := context.Background()

	_, err := x.ExtractFile(ctx, writeTempFile(t, "bad.docx", "not a zip"))
	assert.ErrorIs(t, err, ErrContainer)

	noBody := zipBytes(t, [2]string{"docProps/core.xml", "<cp/>"})
	_, err = x.ExtractFile(ctx, writeTempFile(t, "nobody.docx", string(noBody)))
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = x.ExtractFile(ctx, makeRawDocx(t, "<w:document"))
	assert.ErrorIs(t, err, ErrMalformedXML)
}

func TestExtractor_ExtractFile_CanceledContext(t *testing.T) {
	path := makeDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor().ExtractFile(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_ExtractFile_LogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	path := makeDocx(t, `<w:p><w:r><w:t>logged</w:t></w:r></w:p>`)

	_, err := newTestExtractor(WithLogger(logger)).ExtractFile(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "extracted docx")
	assert.Contains(t, buf.String(), "paragraphs=1")
}

// ---- ExtractURI ------------------------------------------------------------

func TestExtractor_ExtractURI_FileScheme(t *testing.T) {
	path := makeDocx(t, `<w:p><w:r><w:t>via file URI</w:t></w:r></w:p>`)

	out, err := newTestExtractor().ExtractURI(context.Background(), "file://"+path)

	require.NoError(t, err)
	assert.Equal(t, "via file URI", out)
}

func TestExtractor_ExtractURI_HTTP(t *testing.T) {
	srv := serveBytes(t, http.StatusOK, docxBytes(t,
		`<w:p><w:r><w:t>over</w:t></w:r><w:r><w:t>http</w:t></w:r></w:p>`))

	out, err := newTestExtractor(WithHTTPClient(srv.Client())).
		ExtractURI(context.Background(), srv.URL+"/doc.docx")

	require.NoError(t, err)
	assert.Equal(t, "over http", out)
}

func TestExtractor_ExtractURI_HTTPStatus(t *testing.T) {
	srv := serveBytes(t, http.StatusNotFound, []byte("missing"))

	_, err := newTestExtractor().ExtractURI(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrFetch)
}

func TestExtractor_ExtractURI_HTTPNotAZip(t *testing.T) {
	srv := serveBytes(t, http.StatusOK, []byte("<html>not a document</html>"))

	_, err := newTestExtractor().ExtractURI(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrContainer)
}

func TestExtractor_ExtractURI_HTTPTooLarge(t *testing.T) {
	srv := serveBytes(t, http.StatusOK, docxBytes(t, `<w:p><w:r><w:t>big</w:t></w:r></w:p>`))
	cfg := testConfig()
	cfg.MaxFileSizeBytes = 10

	_, err := NewExtractor(cfg).ExtractURI(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractor_ExtractURI_UnsupportedScheme(t *testing.T) {
	_, err := newTestExtractor().ExtractURI(context.Background(), "ftp://example.com/file.docx")

	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestExtractor_ExtractURI_InvalidURI(t *testing.T) {
	_, err := newTestExtractor().ExtractURI(context.Background(), "://bad")

	assert.Error(t, err)
}

// ---- Info ------------------------------------------------------------------

func TestExtractor_Info(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSizeBytes = 7 << 20

	out := NewExtractor(cfg).Info(context.Background())

	assert.Contains(t, out, "DOCX")
	assert.Contains(t, out, "Max file size: 7 MB")
	assert.Contains(t, out, "Fetch timeout: 5s")
}

func TestNewExtractor_NilConfigLoadsEnv(t *testing.T) {
	t.Setenv(config.EnvMaxFileBytes, "3145728")

	x := NewExtractor(nil)

	assert.Equal(t, int64(3<<20), x.cfg.MaxFileSizeBytes)
}
