package extractor

// DOCX → plain text.
//
// A DOCX file is a ZIP archive whose main body lives at word/document.xml.
// The part is read into memory, parsed into an etree tree, and every w:p
// element is reduced to the values of its w:t descendants joined by a space.
// Matching is on the resolved namespace URI, not on the prefix in the file.

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	documentEntry = "word/document.xml"

	wordNamespace = "{http://schemas.openxmlformats.org/wordprocessingml/2006/main}"
	paraTag       = wordNamespace + "p"
	textTag       = wordNamespace + "t"

	runSep       = " "
	paragraphSep = "\n\n"
)

// ExtractDOCX returns the body text of the DOCX file at filePath: one entry per
// paragraph that has text, runs joined by a single space, paragraphs separated
// by a blank line. No size limits are applied.
func ExtractDOCX(filePath string) (string, error) {
	paras, err := docxFileParagraphs(filePath, 0)
	if err != nil {
		return "", err
	}
	return strings.Join(paras, paragraphSep), nil
}

// docxFileParagraphs opens the archive at filePath and returns its paragraph
// strings. maxEntry <= 0 disables the body size check.
func docxFileParagraphs(filePath string, maxEntry int64) ([]string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("open docx %s: %w: %w", filePath, ErrContainer, err)
	}
	defer func() { _ = zr.Close() }()

	data, err := readDocumentXML(&zr.Reader, maxEntry)
	if err != nil {
		return nil, fmt.Errorf("docx %s: %w", filePath, err)
	}
	return parseDocumentXML(data)
}

// docxBytesParagraphs is docxFileParagraphs for an archive already in memory.
func docxBytesParagraphs(data []byte, maxEntry int64) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w: %w", ErrContainer, err)
	}

	body, err := readDocumentXML(zr, maxEntry)
	if err != nil {
		return nil, fmt.Errorf("docx: %w", err)
	}
	return parseDocumentXML(body)
}

// readDocumentXML returns the decompressed bytes of word/document.xml.
func readDocumentXML(zr *zip.Reader, maxEntry int64) ([]byte, error) {
	// With duplicate entries the last one wins.
	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == documentEntry {
			docFile = f
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, documentEntry)
	}

	if maxEntry > 0 && docFile.UncompressedSize64 > uint64(maxEntry) {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, documentEntry, docFile.UncompressedSize64, maxEntry)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", documentEntry, ErrContainer, err)
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if maxEntry > 0 {
		// The header size is not trusted; stop one byte past the limit.
		r = io.LimitReader(rc, maxEntry+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", documentEntry, ErrContainer, err)
	}
	if maxEntry > 0 && int64(len(data)) > maxEntry {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, documentEntry, maxEntry)
	}
	return data, nil
}

// parseDocumentXML parses the body part and returns the text of each
// paragraph that has at least one non-empty text node, in document order.
func parseDocumentXML(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader

	// A UTF-16 or UTF-8 byte order mark is decoded to plain UTF-8; input
	// without one passes through untouched for the declared encoding.
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop))
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", documentEntry, ErrMalformedXML, err)
	}
	if err := checkWellFormed(doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", documentEntry, ErrMalformedXML, err)
	}
	return paragraphs(doc.Root()), nil
}

// charsetReader decodes parts declaring a non-UTF-8 encoding. UTF-16 labels
// are passed through because the BOM transform has already produced UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-16", "utf-16le", "utf-16be", "utf16":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// checkWellFormed rejects what the tokenizer lets through: anything but a
// single root element at the top level, and prefixes with no namespace
// declaration in scope.
func checkWellFormed(doc *etree.Document) error {
	switch n := len(doc.ChildElements()); {
	case n == 0:
		return errors.New("no root element")
	case n > 1:
		return fmt.Errorf("%d top-level elements", n)
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return fmt.Errorf("text outside the root element: %q", cd.Data)
		}
	}

	var unbound string
	walk(doc.Root(), func(e *etree.Element) {
		if unbound != "" {
			return
		}
		if e.Space != "" && e.NamespaceURI() == "" {
			unbound = e.Space
			return
		}
		for _, a := range e.Attr {
			if a.Space != "" && a.Space != "xmlns" && a.Space != "xml" && a.NamespaceURI() == "" {
				unbound = a.Space
				return
			}
		}
	})
	if unbound != "" {
		return fmt.Errorf("unbound prefix %q", unbound)
	}
	return nil
}

func paragraphs(root *etree.Element) []string {
	var out []string
	walk(root, func(e *etree.Element) {
		if qualifiedName(e) != paraTag {
			return
		}
		if runs := textRuns(e); len(runs) > 0 {
			out = append(out, strings.Join(runs, runSep))
		}
	})
	return out
}

// textRuns collects the non-empty w:t values below p. Nested paragraphs are
// descended into like any other wrapper.
func textRuns(p *etree.Element) []string {
	var runs []string
	walk(p, func(e *etree.Element) {
		if qualifiedName(e) != textTag {
			return
		}
		if v := e.Text(); v != "" {
			runs = append(runs, v)
		}
	})
	return runs
}

// walk calls fn on e and then on each descendant element in document order.
func walk(e *etree.Element, fn func(*etree.Element)) {
	fn(e)
	for _, child := range e.ChildElements() {
		walk(child, fn)
	}
}

// qualifiedName renders e as "{namespace-uri}local".
func qualifiedName(e *etree.Element) string {
	return "{" + e.NamespaceURI() + "}" + e.Tag
}
