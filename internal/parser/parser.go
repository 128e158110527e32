package parser

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Recognized MIME types.
const (
	MIMEPDF      = "application/pdf"
	MIMEDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText     = "text/plain"
	MIMEMarkdown = "text/markdown"
	MIMEHTML     = "text/html"
	MIMECSV      = "text/csv"
)

// Parser converts raw document bytes into plain text.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// File describes an uploaded study material on local disk.
type File struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MIMEType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// ForMIME returns the parser for a MIME type. Parameters such as charset are ignored.
func ForMIME(mimeType string) (Parser, error) {
	switch normalizeMIME(mimeType) {
	case MIMEPDF:
		return &PDFParser{}, nil
	case MIMEDOCX:
		return &DOCXParser{}, nil
	case MIMEText:
		return &TextParser{}, nil
	case MIMEMarkdown, "text/x-markdown":
		return &MarkdownParser{}, nil
	case MIMEHTML:
		return &HTMLParser{}, nil
	case MIMECSV:
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
}

func normalizeMIME(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// DescribeFile builds a File for a path on disk, sniffing its MIME type.
// Markdown is indistinguishable from plain text by content, so the extension decides.
func DescribeFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("detect mime type of %s: %w", path, err)
	}
	mt := normalizeMIME(m.String())

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		if mt == MIMEText {
			mt = MIMEMarkdown
		}
	case ".csv":
		if mt == MIMEText {
			mt = MIMECSV
		}
	}

	return File{
		Path:         path,
		OriginalName: filepath.Base(path),
		MIMEType:     mt,
		Size:         info.Size(),
	}, nil
}
