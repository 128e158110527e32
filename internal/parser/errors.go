package parser

import "errors"

var (
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrEmptyContent         = errors.New("document has no text content")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrNoExtractableContent = errors.New("no extractable content in any file")
)
