package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// A4 portrait in points.
const (
	pageWidth  = 595.0
	pageHeight = 842.0
	margin     = 56.0
	textWidth  = pageWidth - 2*margin
)

// Standard fonts that need no embedding.
const (
	fontBody   = "Helvetica"
	fontBold   = "Helvetica-Bold"
	fontItalic = "Helvetica-Oblique"
	fontCode   = "Courier"
)

type block struct {
	text   string
	font   string
	size   int
	indent float64
	// preformatted blocks keep their line breaks and are not re-wrapped.
	pre bool
}

// placed is a single line of text at an absolute position on a page.
type placed struct {
	Text string
	Font string
	Size int
	X, Y float64
}

// layout turns a markdown guide into positioned lines, one slice per page.
func layout(markdown, title string) [][]placed {
	blocks := []block{{text: title, font: fontBold, size: 20}}
	blocks = append(blocks, markdownBlocks([]byte(markdown))...)

	var pages [][]placed
	var cur []placed
	y := pageHeight - margin
	for _, b := range blocks {
		lineHeight := float64(b.size) * 1.4
		for _, ln := range blockLines(b) {
			if y-lineHeight < margin {
				pages = append(pages, cur)
				cur = nil
				y = pageHeight - margin
			}
			y -= lineHeight
			if ln != "" {
				cur = append(cur, placed{Text: ln, Font: b.font, Size: b.size, X: margin + b.indent, Y: y})
			}
		}
		y -= float64(b.size) * 0.5
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}

func blockLines(b block) []string {
	maxChars := lineCapacity(textWidth-b.indent, b.size, b.font)
	if !b.pre {
		return wrap(b.text, maxChars)
	}
	var out []string
	for _, ln := range strings.Split(b.text, "\n") {
		r := []rune(strings.ReplaceAll(ln, "\t", "    "))
		for len(r) > maxChars {
			out = append(out, string(r[:maxChars]))
			r = r[maxChars:]
		}
		out = append(out, string(r))
	}
	return out
}

// lineCapacity estimates how many glyphs fit in width from an average glyph width.
func lineCapacity(width float64, size int, font string) int {
	glyph := float64(size) * 0.5
	if font == fontCode {
		glyph = float64(size) * 0.6
	}
	return max(int(width/glyph), 10)
}

// wrap breaks text into lines of at most maxChars, splitting on whitespace.
func wrap(s string, maxChars int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line []rune
	for _, w := range words {
		wr := []rune(w)
		for len(wr) > maxChars {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(wr[:maxChars]))
			wr = wr[maxChars:]
		}
		switch {
		case len(line) == 0:
			line = wr
		case len(line)+1+len(wr) <= maxChars:
			line = append(append(line, ' '), wr...)
		default:
			lines = append(lines, string(line))
			line = wr
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

func markdownBlocks(src []byte) []block {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var blocks []block
	var visit func(n ast.Node, indent float64)
	visit = func(n ast.Node, indent float64) {
		switch n := n.(type) {
		case *ast.Heading:
			size := 13
			switch n.Level {
			case 1:
				size = 18
			case 2:
				size = 15
			}
			blocks = append(blocks, block{text: inlineText(n, src), font: fontBold, size: size, indent: indent})
		case *ast.Paragraph, *ast.TextBlock:
			blocks = append(blocks, block{text: inlineText(n, src), font: fontBody, size: 11, indent: indent})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, block{text: rawLines(n, src), font: fontCode, size: 10, indent: indent + 12, pre: true})
		case *ast.ThematicBreak:
			blocks = append(blocks, block{text: "", font: fontBody, size: 11})
		case *ast.Blockquote:
			start := len(blocks)
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				visit(c, indent+18)
			}
			for i := start; i < len(blocks); i++ {
				if blocks[i].font == fontBody {
					blocks[i].font = fontItalic
				}
			}
		case *ast.ListItem:
			start := len(blocks)
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				visit(c, indent+14)
			}
			if start < len(blocks) {
				blocks[start].text = "- " + blocks[start].text
			}
		default:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				visit(c, indent)
			}
		}
	}
	visit(doc, 0)
	return blocks
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
