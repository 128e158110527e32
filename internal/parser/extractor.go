package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrent = 5

// Extractor turns study materials into plain text.
type Extractor struct {
	log           *slog.Logger
	maxConcurrent int
	pdfFallback   bool
}

// NewExtractor creates an Extractor that reads at most maxConcurrent files at once.
func NewExtractor(log *slog.Logger, maxConcurrent int, pdfFallback bool) *Extractor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Extractor{log: log, maxConcurrent: maxConcurrent, pdfFallback: pdfFallback}
}

// ExtractOne reads the file at path as mimeType and returns its text.
func (e *Extractor) ExtractOne(ctx context.Context, path, mimeType string) (string, error) {
	p, err := ForMIME(mimeType)
	if err != nil {
		return "", err
	}
	if pdf, ok := p.(*PDFParser); ok {
		pdf.FallbackPdftotext = e.pdfFallback
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	defer f.Close()

	text, err := p.Parse(f, f.Name())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtractionFailed, normalizeMIME(mimeType), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

// ExtractBatch extracts every file concurrently and combines the results in
// input order, each wrapped in a header and footer naming the source file.
// Files that fail are logged and left out; the batch fails only when none succeed.
func (e *Extractor) ExtractBatch(ctx context.Context, files []File) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no files provided", ErrNoExtractableContent)
	}

	texts := make([]string, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(e.maxConcurrent)
	for i, f := range files {
		g.Go(func() error {
			texts[i], errs[i] = e.ExtractOne(ctx, f.Path, f.MIMEType)
			return nil
		})
	}
	_ = g.Wait()

	var sections []string
	for i, f := range files {
		if errs[i] != nil {
			e.log.Warn("skipping file", "file", f.OriginalName, "mime_type", f.MIMEType, "error", errs[i])
			continue
		}
		sections = append(sections, documentSection(f.OriginalName, texts[i]))
	}

	if len(sections) == 0 {
		return "", fmt.Errorf("%w: %w", ErrNoExtractableContent, errors.Join(errs...))
	}

	e.log.Info("extracted materials", "files", len(files), "succeeded", len(sections))
	return strings.Join(sections, "\n\n"), nil
}

func documentSection(name, text string) string {
	return fmt.Sprintf("=== DOCUMENT: %s ===\n\n%s\n\n=== END OF DOCUMENT: %s ===", name, text, name)
}
