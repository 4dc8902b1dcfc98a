// Package spreadsheet reads fixed-layout planning and portal workbooks. All
// cells are read as untyped text so type coercion happens downstream, never
// at extraction time.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/dparodi/hacienda/internal/extract"
)

// ReadXLSX reads the first sheet of an xlsx file as text rows.
func ReadXLSX(path string) ([][]string, error) {
	if err := extract.CheckFile(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}
	defer f.Close()

	return sheetRows(f)
}

// ReadXLSXFrom reads the first sheet of an uploaded xlsx stream.
func ReadXLSXFrom(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}
	defer f.Close()

	return sheetRows(f)
}

func sheetRows(f *excelize.File) ([][]string, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", extract.ErrBadFormat)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", extract.ErrBadFormat, sheet)
	}

	return rows, nil
}

// ReadXLS reads the first sheet of a legacy BIFF .xls file as text rows.
// The historical planning sheet predates xlsx.
func ReadXLS(path string) ([][]string, error) {
	if err := extract.CheckFile(path); err != nil {
		return nil, err
	}

	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}

	var rows [][]string

	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}

		var cells []string

		for _, col := range row.GetCols() {
			if col == nil {
				cells = append(cells, "")
				continue
			}

			cells = append(cells, col.GetString())
		}

		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: workbook has no rows", extract.ErrBadFormat)
	}

	return rows, nil
}

// StripHeader drops the leading header rows of a fixed-layout sheet.
func StripHeader(rows [][]string, headerRows int) [][]string {
	if headerRows >= len(rows) {
		return nil
	}

	return rows[headerRows:]
}
