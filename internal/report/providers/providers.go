// Package providers handles the provider master ledger, kept by the oldest
// source system in desktop-database DBF tables.
package providers

import (
	"context"
	"strings"

	"github.com/dparodi/hacienda/internal/extract/dbftable"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

const CollectionName = "proveedores"

// TableName is the DBF table holding the master.
const TableName = "PROVEED"

func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "codigo",
		Fields: []schema.Field{
			{Name: "codigo", Kind: schema.String, Required: true},
			{Name: "razon_social", Kind: schema.String, Required: true},
			{Name: "cuit", Kind: schema.String},
			{Name: "domicilio", Kind: schema.String},
			{Name: "localidad", Kind: schema.String},
			{Name: "condicion_iva", Kind: schema.String},
		},
	}
}

// DBF field -> record field renames. DBF caps names at ten characters.
var renames = map[string]string{
	"CODIGO":    "codigo",
	"RAZON":     "razon_social",
	"CUIT":      "cuit",
	"DOMICIL":   "domicilio",
	"LOCALIDAD": "localidad",
	"CONDIVA":   "condicion_iva",
}

// FromTable reads and normalizes the provider master.
func FromTable(ctx context.Context, reader *dbftable.Reader) ([]record.Record, error) {
	fields, rows, err := reader.Table(ctx, TableName)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[strings.ToUpper(strings.TrimSpace(f))] = i
	}

	out := make([]record.Record, 0, len(rows))

	for _, row := range rows {
		r := make(record.Record, len(renames))

		for src, dst := range renames {
			i, ok := index[src]
			if !ok || i >= len(row) || normalize.Blank(row[i]) {
				r[dst] = nil
				continue
			}

			r[dst] = strings.TrimSpace(row[i])
		}

		out = append(out, r)
	}

	return normalize.Dedup(out, "codigo"), nil
}
