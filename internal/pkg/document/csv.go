package document

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) ContentType() string { return "text/csv" }
func (r *CSVRenderer) Extension() string   { return "csv" }

// Render writes doc.Records with a header row. Totals are left out so the file
// can be imported by bank and GRA upload tools as-is.
func (r *CSVRenderer) Render(doc Document) ([]byte, error) {
	if doc.Records == nil {
		return nil, ErrNoRecords
	}
	out, err := gocsv.MarshalBytes(doc.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal csv: %w", err)
	}
	return out, nil
}
