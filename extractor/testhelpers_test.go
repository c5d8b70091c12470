package extractor

// Shared test helpers for the extractor package.

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// writeTempFile writes content to a temp file with the given name and returns
// its path. The file is cleaned up automatically when the test ends.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// zipBytes builds an in-memory ZIP archive holding the given entries, written
// in the order given.
func zipBytes(t *testing.T, entries ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// docxBytes wraps bodyXML in a w:document/w:body and packs it as a minimal
// .docx archive.
func docxBytes(t *testing.T, bodyXML string) []byte {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document ` + wordNS + `><w:body>` + bodyXML + `</w:body></w:document>`
	return rawDocxBytes(t, doc)
}

// rawDocxBytes packs documentXML verbatim as word/document.xml.
func rawDocxBytes(t *testing.T, documentXML string) []byte {
	t.Helper()
	return zipBytes(t,
		[2]string{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		[2]string{"word/document.xml", documentXML},
	)
}

// makeDocx builds a minimal .docx file containing the given OOXML body
// fragment and returns its path.
func makeDocx(t *testing.T, bodyXML string) string {
	t.Helper()
	return writeTempFile(t, "test.docx", string(docxBytes(t, bodyXML)))
}

// makeRawDocx is makeDocx for a complete word/document.xml.
func makeRawDocx(t *testing.T, documentXML string) string {
	t.Helper()
	return writeTempFile(t, "test.docx", string(rawDocxBytes(t, documentXML)))
}
