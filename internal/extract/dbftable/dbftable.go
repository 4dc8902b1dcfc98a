// Package dbftable reads tables exported by the legacy desktop accounting
// system as DBF files. Tables are addressed by name inside a data directory.
// Files too old for the driver fall back to an external export tool, a
// best-effort path that depends on the deployment environment.
package dbftable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/LindsayBradford/go-dbf/godbf"

	"github.com/dparodi/hacienda/internal/extract"
)

// ErrNoFallbackTool means the DBF driver rejected the file and no external
// export tool is configured for this deployment.
var ErrNoFallbackTool = errors.New("dbf file needs the external export tool, none configured")

// Reader opens legacy database tables by name.
type Reader struct {
	dataDir    string
	exportTool string // optional CLI fallback, e.g. a dbview-style exporter
}

func NewReader(dataDir, exportTool string) *Reader {
	return &Reader{dataDir: dataDir, exportTool: exportTool}
}

// Table reads one table by name and returns its field names and text rows.
func (r *Reader) Table(ctx context.Context, name string) ([]string, [][]string, error) {
	path := filepath.Join(r.dataDir, strings.ToUpper(name)+".DBF")

	if err := extract.CheckFile(path); err != nil {
		path = filepath.Join(r.dataDir, strings.ToLower(name)+".dbf")
		if err := extract.CheckFile(path); err != nil {
			return nil, nil, err
		}
	}

	table, err := godbf.NewFromFile(path, "ISO-8859-1")
	if err != nil {
		// Typically a pre-dBase-III file version the driver cannot open.
		return r.exportWithTool(ctx, path, err)
	}

	fields := table.FieldNames()

	rows := make([][]string, 0, table.NumberOfRecords())

	for i := 0; i < table.NumberOfRecords(); i++ {
		row := make([]string, len(fields))

		for j := range fields {
			row[j] = strings.TrimSpace(table.FieldValue(i, j))
		}

		rows = append(rows, row)
	}

	return fields, rows, nil
}

// exportWithTool shells out to the configured export command, which must
// print the table as delimited text on stdout with a header line.
func (r *Reader) exportWithTool(ctx context.Context, path string, openErr error) ([]string, [][]string, error) {
	if r.exportTool == "" {
		return nil, nil, fmt.Errorf("%w (open error: %v)", ErrNoFallbackTool, openErr)
	}

	out, err := exec.CommandContext(ctx, r.exportTool, path).Output()
	if err != nil {
		return nil, nil, fmt.Errorf("running %s on %s: %w", r.exportTool, path, err)
	}

	cr := csv.NewReader(strings.NewReader(string(out)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	all, err := cr.ReadAll()
	if err != nil || len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: export tool output unreadable", extract.ErrBadFormat)
	}

	fields := make([]string, len(all[0]))
	for i, f := range all[0] {
		fields[i] = strings.TrimSpace(f)
	}

	return fields, all[1:], nil
}
