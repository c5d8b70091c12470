package extractor

import "errors"

// Failure classes returned (wrapped) by the extractor. Use errors.Is to test.
var (
	// ErrContainer is returned when the input is not a readable ZIP archive.
	ErrContainer = errors.New("not a valid docx container")

	// ErrEntryNotFound is returned when the archive has no word/document.xml.
	ErrEntryNotFound = errors.New("entry not found in archive")

	// ErrMalformedXML is returned when the document body is not well-formed XML.
	ErrMalformedXML = errors.New("malformed document xml")

	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrTooLarge is returned when the input or the decompressed document body
	// exceeds the configured limit.
	ErrTooLarge = errors.New("input too large")

	// ErrUnsupportedScheme is returned for URIs other than file, http and https.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")

	// ErrFetch is returned when an http(s) input cannot be downloaded.
	ErrFetch = errors.New("fetch failed")
)
