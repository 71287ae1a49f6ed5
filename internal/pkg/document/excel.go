package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (r *ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *ExcelRenderer) Extension() string { return "xlsx" }

func (r *ExcelRenderer) Render(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	title := doc.Title
	if doc.Provisional {
		title += " (PROVISIONAL)"
	}
	if err := f.SetCellValue(sheetName, cell(1, row), title); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetName, cell(1, row), cell(1, row), boldStyle)
	row++

	for _, line := range doc.Subtitle {
		if err := f.SetCellValue(sheetName, cell(1, row), line); err != nil {
			return nil, err
		}
		row++
	}
	row++

	headers := make([]interface{}, len(doc.Columns))
	for i, c := range doc.Columns {
		headers[i] = c.Header
		width := c.Width * 1.2
		if width < 12 {
			width = 12
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, width)
	}
	if err := f.SetSheetRow(sheetName, cell(1, row), &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	if len(doc.Columns) > 0 {
		_ = f.SetCellStyle(sheetName, cell(1, row), cell(len(doc.Columns), row), headerStyle)
	}
	row++

	writeRow := func(values []string) error {
		for i, v := range values {
			if i < len(doc.Columns) && doc.Columns[i].Numeric {
				if err := setNumber(f, cell(i+1, row), v); err != nil {
					return err
				}
				_ = f.SetCellStyle(sheetName, cell(i+1, row), cell(i+1, row), numberStyle)
				continue
			}
			if err := f.SetCellValue(sheetName, cell(i+1, row), v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, values := range doc.Rows {
		if err := writeRow(values); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	if len(doc.Totals) > 0 {
		totalsRow := row
		if err := writeRow(doc.Totals); err != nil {
			return nil, fmt.Errorf("failed to write totals: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell(1, totalsRow), cell(1, totalsRow), boldStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// setNumber stores formatted amounts such as "1,234.50" as numbers.
func setNumber(f *excelize.File, axis, formatted string) error {
	v, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64)
	if err != nil {
		return f.SetCellValue(sheetName, axis, formatted)
	}
	return f.SetCellFloat(sheetName, axis, v, 2, 64)
}
