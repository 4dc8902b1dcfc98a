// Package renditions handles provider payment renditions, exported by the
// paying agency as delimited text in a legacy 8-bit encoding. Headers are
// unreliable, so columns are taken by fixed position. Works renditions
// ("OBRAS" origin) carry an extra column that shifts the rest of the layout;
// the origin discriminator selects the sub-format once, at entry, and both
// layouts converge to the same record shape.
package renditions

import (
	"io"
	"time"

	"github.com/dparodi/hacienda/internal/extract/fixedcsv"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

const CollectionName = "resumen_rendiciones"

// OrigenObras is the discriminator value of the shifted works layout.
const OrigenObras = "OBRAS"

func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "libramiento",
		Fields: []schema.Field{
			{Name: "ejercicio", Kind: schema.Int, Required: true},
			{Name: "mes", Kind: schema.Int, Required: true},
			{Name: "origen", Kind: schema.String, Required: true},
			{Name: "obra", Kind: schema.String},
			{Name: "fecha", Kind: schema.Date, Required: true},
			{Name: "beneficiario", Kind: schema.String, Required: true},
			{Name: "libramiento", Kind: schema.String, Required: true},
			{Name: "importe_bruto", Kind: schema.Float, Required: true},
			{Name: "iibb", Kind: schema.Float},
			{Name: "sellos", Kind: schema.Float},
			{Name: "suss", Kind: schema.Float},
			{Name: "gcias", Kind: schema.Float},
			{Name: "retenciones", Kind: schema.Float, Required: true},
			{Name: "importe_neto", Kind: schema.Float, Required: true},
		},
	}
}

var deriveCommon = []normalize.Derived{
	{Name: "retenciones", Fn: normalize.SumFields("iibb", "sellos", "suss", "gcias")},
	{Name: "ejercicio", Fn: yearOf},
	{Name: "mes", Fn: monthOf},
}

// generalMapping is the layout of every origin except OBRAS.
var generalMapping = normalize.Mapping{
	Columns: []normalize.Column{
		{Name: "origen", Index: 0},
		{Name: "fecha", Index: 1, Kind: normalize.AsDate},
		{Name: "beneficiario", Index: 2},
		{Name: "libramiento", Index: 3},
		{Name: "importe_bruto", Index: 4, Kind: normalize.AsMoney},
		{Name: "iibb", Index: 5, Kind: normalize.AsMoney},
		{Name: "sellos", Index: 6, Kind: normalize.AsMoney},
		{Name: "suss", Index: 7, Kind: normalize.AsMoney},
		{Name: "gcias", Index: 8, Kind: normalize.AsMoney},
		{Name: "importe_neto", Index: 9, Kind: normalize.AsMoney},
	},
	Derive: deriveCommon,
}

// obrasMapping is the works layout: an obra column at position 2 shifts
// everything after it one place right.
var obrasMapping = normalize.Mapping{
	Columns: []normalize.Column{
		{Name: "origen", Index: 0},
		{Name: "fecha", Index: 1, Kind: normalize.AsDate},
		{Name: "obra", Index: 2},
		{Name: "beneficiario", Index: 3},
		{Name: "libramiento", Index: 4},
		{Name: "importe_bruto", Index: 5, Kind: normalize.AsMoney},
		{Name: "iibb", Index: 6, Kind: normalize.AsMoney},
		{Name: "sellos", Index: 7, Kind: normalize.AsMoney},
		{Name: "suss", Index: 8, Kind: normalize.AsMoney},
		{Name: "gcias", Index: 9, Kind: normalize.AsMoney},
		{Name: "importe_neto", Index: 10, Kind: normalize.AsMoney},
	},
	Derive: deriveCommon,
}

func yearOf(r record.Record) (any, error) {
	if t, ok := r["fecha"].(time.Time); ok {
		return int64(t.Year()), nil
	}

	return nil, nil
}

func monthOf(r record.Record) (any, error) {
	if t, ok := r["fecha"].(time.Time); ok {
		return int64(t.Month()), nil
	}

	return nil, nil
}

var readOptions = fixedcsv.Options{
	Comma:      ';',
	SkipRows:   1,
	MinColumns: 10,
}

// FromReader parses one rendition export. Rows are split by origin before
// mapping so each sub-format is applied exactly once.
func FromReader(r io.Reader) ([]record.Record, error) {
	rows, err := fixedcsv.Read(r, readOptions)
	if err != nil {
		return nil, err
	}

	out := make([]record.Record, 0, len(rows))

	for _, row := range rows {
		if len(row) == 0 || normalize.Blank(row[0]) {
			continue
		}

		m := generalMapping
		if row[0] == OrigenObras {
			m = obrasMapping
		}

		out = append(out, m.Apply([][]string{row})...)
	}

	return normalize.Dedup(out, "libramiento", "origen"), nil
}
