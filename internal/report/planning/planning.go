// Package planning handles the historical planning workbook, a legacy .xls
// sheet whose program/subprogram/project hierarchy uses merged cells: a
// row's grouping columns are inherited from the nearest prior non-blank row.
package planning

import (
	"fmt"

	"github.com/dparodi/hacienda/internal/extract/spreadsheet"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

const CollectionName = "plan_inversiones"

const headerRows = 2

// hierarchical columns subject to forward-fill, by position.
var filledColumns = []int{0, 1, 2, 3, 4, 5}

func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "estructura",
		Fields: []schema.Field{
			{Name: "estructura", Kind: schema.String, Required: true},
			{Name: "programa", Kind: schema.String, Required: true},
			{Name: "desc_programa", Kind: schema.String},
			{Name: "subprograma", Kind: schema.String, Required: true},
			{Name: "desc_subprograma", Kind: schema.String},
			{Name: "proyecto", Kind: schema.String, Required: true},
			{Name: "desc_proyecto", Kind: schema.String},
			{Name: "credito", Kind: schema.Float, Required: true},
		},
	}
}

var mapping = normalize.Mapping{
	Columns: []normalize.Column{
		{Name: "programa", Index: 0},
		{Name: "desc_programa", Index: 1},
		{Name: "subprograma", Index: 2},
		{Name: "desc_subprograma", Index: 3},
		{Name: "proyecto", Index: 4},
		{Name: "desc_proyecto", Index: 5},
		{Name: "credito", Index: 6, Kind: normalize.AsMoney},
	},
	Derive: []normalize.Derived{
		{Name: "estructura", Fn: estructura},
	},
}

func estructura(r record.Record) (any, error) {
	prog, sub, proy := r.String("programa"), r.String("subprograma"), r.String("proyecto")
	if prog == "" || sub == "" || proy == "" {
		return nil, fmt.Errorf("incomplete hierarchy for estructura")
	}

	return prog + "-" + sub + "-" + proy, nil
}

// FromFile reads the planning workbook and reconstructs the hierarchy.
func FromFile(path string) ([]record.Record, error) {
	rows, err := spreadsheet.ReadXLS(path)
	if err != nil {
		return nil, err
	}

	return FromRows(rows), nil
}

// FromRows normalizes raw sheet rows: header strip, forward-fill of the
// grouping columns, then the fixed column mapping.
func FromRows(rows [][]string) []record.Record {
	data := spreadsheet.StripHeader(rows, headerRows)

	filled := forwardFillColumns(data, filledColumns)

	return normalize.Dedup(mapping.Apply(filled), "estructura")
}

// forwardFillColumns applies the forward-fill rule to the given column
// positions across all rows.
func forwardFillColumns(rows [][]string, cols []int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}

	for _, c := range cols {
		col := make([]any, len(out))

		for i, row := range out {
			if c < len(row) && !normalize.Blank(row[c]) {
				col[i] = row[c]
			}
		}

		for i, v := range normalize.ForwardFill(col) {
			if v == nil {
				continue
			}

			for len(out[i]) <= c {
				out[i] = append(out[i], "")
			}

			out[i][c] = v.(string)
		}
	}

	return out
}
