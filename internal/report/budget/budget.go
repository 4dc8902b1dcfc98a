// Package budget handles the budget execution report: one portal download
// per fiscal year, one record per budget structure line.
package budget

import (
	"context"
	"fmt"

	"github.com/dparodi/hacienda/internal/extract/spreadsheet"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

// CollectionName is the persisted collection for this report kind.
const CollectionName = "ejecucion_presupuesto"

// Portal catalog selectors for this report.
const (
	selModule      = `a[data-modulo="gastos"]`
	selModuleReady = `#lista-reportes-gastos`
	selReportCode  = `input[name="codigo_reporte"]`
	selOpenReport  = `#btn-abrir-reporte`
	selEjercicio   = `input[name="ejercicio"]`
	selGenerate    = `#btn-generar-xls`

	reportCode = "38"
)

const headerRows = 3

// Schema is the validated shape of a budget execution record.
func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "estructura",
		Fields: []schema.Field{
			{Name: "ejercicio", Kind: schema.Int, Required: true},
			{Name: "estructura", Kind: schema.String, Required: true},
			{Name: "programa", Kind: schema.String, Required: true},
			{Name: "subprograma", Kind: schema.String, Required: true},
			{Name: "proyecto", Kind: schema.String, Required: true},
			{Name: "actividad", Kind: schema.String, Required: true},
			{Name: "partida", Kind: schema.String, Required: true},
			{Name: "fuente", Kind: schema.String, Required: true},
			{Name: "descripcion", Kind: schema.String},
			{Name: "credito_original", Kind: schema.Float, Required: true},
			{Name: "credito_vigente", Kind: schema.Float, Required: true},
			{Name: "comprometido", Kind: schema.Float},
			{Name: "ordenado", Kind: schema.Float},
			{Name: "saldo", Kind: schema.Float},
		},
	}
}

var mapping = normalize.Mapping{
	Columns: []normalize.Column{
		{Name: "programa", Index: 0},
		{Name: "subprograma", Index: 1},
		{Name: "proyecto", Index: 2},
		{Name: "actividad", Index: 3},
		{Name: "partida", Index: 4},
		{Name: "fuente", Index: 5},
		{Name: "descripcion", Index: 6},
		{Name: "credito_original", Index: 7, Kind: normalize.AsMoney},
		{Name: "credito_vigente", Index: 8, Kind: normalize.AsMoney},
		{Name: "comprometido", Index: 9, Kind: normalize.AsMoney},
		{Name: "ordenado", Index: 10, Kind: normalize.AsMoney},
		{Name: "saldo", Index: 11, Kind: normalize.AsMoney},
	},
	Derive: []normalize.Derived{
		{Name: "estructura", Fn: estructura},
	},
}

// estructura is the composite budget line key: programa-subprograma-
// proyecto-actividad-partida.
func estructura(r record.Record) (any, error) {
	parts := []string{"programa", "subprograma", "proyecto", "actividad", "partida"}

	key := ""

	for i, f := range parts {
		v := r.String(f)
		if v == "" {
			return nil, fmt.Errorf("field %q missing for estructura", f)
		}

		if i > 0 {
			key += "-"
		}

		key += v
	}

	return key, nil
}

// FromRows normalizes raw sheet rows into budget records.
func FromRows(rows [][]string) []record.Record {
	data := spreadsheet.StripHeader(rows, headerRows)

	recs := mapping.Apply(data)

	return normalize.Dedup(recs, "estructura")
}

// Report is the portal driver for this kind.
type Report struct{}

var _ portal.Report = Report{}

func (Report) Name() string { return CollectionName }

func (Report) GoToSpecificReport(ctx context.Context, s *portal.Session) error {
	if err := s.SelectModule(ctx, selModule, selModuleReady); err != nil {
		return err
	}

	if err := s.Page().Fill(ctx, selReportCode, reportCode); err != nil {
		return fmt.Errorf("selecting report %s: %w", reportCode, err)
	}

	if err := s.Page().Click(ctx, selOpenReport); err != nil {
		return fmt.Errorf("opening report %s: %w", reportCode, err)
	}

	return nil
}

func (Report) DownloadReport(ctx context.Context, s *portal.Session, ejercicio int) (string, error) {
	return s.DownloadFile(ctx, func(ctx context.Context) error {
		if err := s.Page().Fill(ctx, selEjercicio, fmt.Sprint(ejercicio)); err != nil {
			return err
		}

		return s.Page().Click(ctx, selGenerate)
	})
}

func (Report) ProcessRows(path string) ([]record.Record, error) {
	rows, err := spreadsheet.ReadXLSX(path)
	if err != nil {
		return nil, err
	}

	return FromRows(rows), nil
}
