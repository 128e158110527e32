// Package render lays out markdown study guides as PDF documents.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF renders study guides with pdfcpu's JSON page description.
type PDF struct {
	conf *model.Configuration
}

func NewPDF() *PDF {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDF{conf: conf}
}

// Render returns a PDF of markdown headed by title.
func (p *PDF) Render(markdown, title string) ([]byte, error) {
	desc, err := json.Marshal(describe(layout(markdown, title)))
	if err != nil {
		return nil, fmt.Errorf("encode page description: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &out, p.conf); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return out.Bytes(), nil
}

type createDoc struct {
	Paper  string                `json:"paper"`
	Origin string                `json:"origin"`
	Pages  map[string]createPage `json:"pages"`
}

type createPage struct {
	Content createContent `json:"content"`
}

type createContent struct {
	Text []createText `json:"text"`
}

type createText struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  createFont `json:"font"`
}

type createFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func describe(pages [][]placed) createDoc {
	doc := createDoc{Paper: "A4P", Origin: "LowerLeft", Pages: make(map[string]createPage, len(pages))}
	for i, lines := range pages {
		texts := make([]createText, 0, len(lines))
		for _, ln := range lines {
			texts = append(texts, createText{
				Value: winAnsi(ln.Text),
				Pos:   [2]float64{ln.X, ln.Y},
				Font:  createFont{Name: ln.Font, Size: ln.Size},
			})
		}
		doc.Pages[strconv.Itoa(i+1)] = createPage{Content: createContent{Text: texts}}
	}
	return doc
}

var typographic = strings.NewReplacer(
	"‘", "'", "’", "'", "“", `"`, "”", `"`,
	"–", "-", "—", "-", "…", "...", "•", "-",
)

// winAnsi maps text onto what the standard Type 1 fonts can show.
func winAnsi(s string) string {
	s = typographic.Replace(s)
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}
