// Package document renders tabular report data and payslips into PDF, Excel
// and CSV byte streams. Layout is presentation only.
package document

import (
	"errors"
	"fmt"
)

var ErrNoRecords = errors.New("document has no csv records")

// Column describes one table column.
type Column struct {
	Header  string
	Width   float64 // relative width, used by PDF and Excel
	Numeric bool
}

// Document is the format-neutral input of every Renderer.
type Document struct {
	Title       string
	Subtitle    []string
	Provisional bool
	Columns     []Column
	Rows        [][]string
	Totals      []string
	// Records is a slice of structs with `csv` tags, consumed by CSVRenderer.
	Records interface{}
}

type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Registry maps export format names (pdf, xlsx, csv) to renderers.
type Registry map[string]Renderer

func NewRegistry(renderers ...Renderer) Registry {
	r := make(Registry, len(renderers))
	for _, renderer := range renderers {
		r[renderer.Extension()] = renderer
	}
	return r
}

func (r Registry) Get(format string) (Renderer, error) {
	renderer, ok := r[format]
	if !ok {
		return nil, fmt.Errorf("no renderer registered for format %q", format)
	}
	return renderer, nil
}
