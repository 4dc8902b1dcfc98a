// Package bankmov handles bank account movements, ingested from the SQLite
// snapshots the bank liaison system exports nightly.
package bankmov

import (
	"context"
	"fmt"
	"time"

	"github.com/dparodi/hacienda/internal/extract/sqlitesnap"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

const CollectionName = "movimientos_bancarios"

// TableName is the snapshot table holding the movements.
const TableName = "movimientos"

func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "nro_movimiento",
		Fields: []schema.Field{
			{Name: "ejercicio", Kind: schema.Int, Required: true},
			{Name: "mes", Kind: schema.Int, Required: true},
			{Name: "nro_movimiento", Kind: schema.String, Required: true},
			{Name: "fecha", Kind: schema.Date, Required: true},
			{Name: "cta_cte", Kind: schema.String, Required: true},
			{Name: "importe", Kind: schema.Float, Required: true},
			{Name: "concepto", Kind: schema.String},
			{Name: "beneficiario", Kind: schema.String},
		},
	}
}

// snapshot column -> record field renames.
var renames = map[string]string{
	"id":           "nro_movimiento",
	"fecha":        "fecha",
	"cta_cte":      "cta_cte",
	"importe":      "importe",
	"concepto":     "concepto",
	"beneficiario": "beneficiario",
}

// FromSnapshot reads the movements table and normalizes it: column renames,
// date parsing, fiscal year and month derived from the movement date.
func FromSnapshot(ctx context.Context, path string) ([]record.Record, error) {
	rows, err := sqlitesnap.ReadTable(ctx, path, TableName)
	if err != nil {
		return nil, err
	}

	out := make([]record.Record, 0, len(rows))

	for _, row := range rows {
		r := make(record.Record, len(renames)+2)

		for src, dst := range renames {
			r[dst] = coerce(dst, row[src])
		}

		if t, ok := r["fecha"].(time.Time); ok {
			r["ejercicio"] = int64(t.Year())
			r["mes"] = int64(t.Month())
		} else {
			r["ejercicio"] = nil
			r["mes"] = nil
		}

		out = append(out, r)
	}

	return normalize.Dedup(out, "nro_movimiento"), nil
}

func coerce(field string, v any) any {
	switch field {
	case "fecha":
		s, ok := v.(string)
		if !ok {
			return v
		}

		if t, err := normalize.Date(s); err == nil {
			return t
		}

		return s
	case "nro_movimiento":
		if v == nil {
			return nil
		}

		return fmt.Sprint(v)
	case "importe":
		if s, ok := v.(string); ok {
			if f, err := normalize.Money(s); err == nil {
				return f
			}
		}

		return v
	default:
		if s, ok := v.(string); ok && normalize.Blank(s) {
			return nil
		}

		return v
	}
}
