// Package payables handles the floating-debt ledger: the accounts the
// treasury still owes, published as a tabular PDF. The ledger arrives either
// as a portal download or as a PDF already on disk.
package payables

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dparodi/hacienda/internal/extract"
	"github.com/dparodi/hacienda/internal/extract/pdftable"
	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

const CollectionName = "deuda_flotante"

const (
	selModule      = `a[data-modulo="contabilidad"]`
	selModuleReady = `#lista-reportes-contabilidad`
	selReportCode  = `input[name="codigo_reporte"]`
	selOpenReport  = `#btn-abrir-reporte`
	selEjercicio   = `input[name="ejercicio"]`
	selGenerate    = `#btn-generar-pdf`

	reportCode = "267"
)

// entryLine captures one ledger row:
// entry no, origin no, funding source, agency, amount, balance,
// file number, checking account, description.
var entryLine = regexp.MustCompile(
	`^(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(-?[\d.]+,\d{2})\s+(-?[\d.]+,\d{2})\s+(\d+)\s+(\S+)\s+(.+)$`)

// excludedPrefixes are header, footer and totals lines that look tabular but
// carry no entry.
var excludedPrefixes = []string{
	"TOTAL", "Total", "Fecha", "Entrada", "Saldo al", "Pagina", "Página",
}

func Schema() schema.Schema {
	return schema.Schema{
		Name:    CollectionName,
		IDField: "nro_entrada",
		Fields: []schema.Field{
			{Name: "ejercicio", Kind: schema.Int, Required: true},
			{Name: "nro_entrada", Kind: schema.String, Required: true},
			{Name: "nro_origen", Kind: schema.String, Required: true},
			{Name: "fuente", Kind: schema.String, Required: true},
			{Name: "organismo", Kind: schema.String},
			{Name: "importe", Kind: schema.Float, Required: true},
			{Name: "saldo", Kind: schema.Float, Required: true},
			{Name: "nro_expte", Kind: schema.String, Required: true},
			{Name: "cta_cte", Kind: schema.String, Required: true},
			{Name: "glosa", Kind: schema.String},
		},
	}
}

// FromLines parses candidate PDF text lines into ledger records. Lines that
// match the row heuristic but fail monetary parsing keep the raw token so
// validation attributes the failure to the entry.
func FromLines(lines []string) []record.Record {
	rows := pdftable.DataRows(lines, 2, excludedPrefixes)

	var out []record.Record

	for _, line := range rows {
		m := entryLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		r := record.Record{
			"nro_entrada": m[1],
			"nro_origen":  m[2],
			"fuente":      m[3],
			"organismo":   m[4],
			"importe":     moneyOrRaw(m[5]),
			"saldo":       moneyOrRaw(m[6]),
			"nro_expte":   m[7],
			"cta_cte":     m[8],
			"glosa":       strings.TrimSpace(m[9]),
		}

		out = append(out, r)
	}

	return normalize.Dedup(out, "nro_entrada", "nro_origen", "importe")
}

func moneyOrRaw(token string) any {
	v, err := normalize.Money(token)
	if err != nil {
		return token
	}

	return v
}

// FromFile extracts the ledger from a PDF on disk.
func FromFile(path string) ([]record.Record, error) {
	lines, err := pdftable.Lines(path)
	if err != nil {
		return nil, err
	}

	recs := FromLines(lines)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no ledger rows recognized in %s", extract.ErrBadFormat, path)
	}

	return recs, nil
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
	return FromFile(path)
}
