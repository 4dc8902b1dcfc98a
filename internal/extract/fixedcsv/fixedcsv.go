// Package fixedcsv reads delimited legacy exports whose headers are
// inconsistent or absent. Columns are selected by fixed position, never by
// header name, and the bytes are decoded from the legacy 8-bit charset the
// source system still emits.
package fixedcsv

import (
	"encoding/csv"
	"fmt"
	"io"

	enc "github.com/dparodi/hacienda/internal/encoding"
	"github.com/dparodi/hacienda/internal/extract"
)

// Options describe one export layout.
type Options struct {
	Comma      rune
	SkipRows   int // leading junk/header rows to drop
	MinColumns int // trial-parse guard: first data row must have at least this many columns
}

// Read decodes and parses the export, returning raw text rows.
func Read(r io.Reader, opts Options) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}

	if opts.SkipRows >= len(rows) {
		return nil, fmt.Errorf("%w: no data rows", extract.ErrBadFormat)
	}

	rows = rows[opts.SkipRows:]

	if opts.MinColumns > 0 && len(rows[0]) < opts.MinColumns {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d",
			extract.ErrBadFormat, opts.MinColumns, len(rows[0]))
	}

	return rows, nil
}
