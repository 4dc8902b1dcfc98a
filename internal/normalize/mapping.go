package normalize

import (
	"fmt"
	"strings"

	"github.com/dparodi/hacienda/internal/record"
)

// Coercion selects how a source cell is converted to a record value.
type Coercion int

const (
	// AsText keeps the trimmed cell text.
	AsText Coercion = iota
	// AsMoney applies Argentine-locale monetary parsing.
	AsMoney
	// AsInteger parses a whole number.
	AsInteger
	// AsDate parses a dd/mm/yyyy calendar date.
	AsDate
)

// Column maps one source cell position to a named record field.
type Column struct {
	Name  string
	Index int
	Kind  Coercion
}

// Derived computes an extra field from the already-coerced record.
type Derived struct {
	Name string
	Fn   func(record.Record) (any, error)
}

// Mapping is the fixed column layout of one report sub-format: positional
// renames, per-column coercion and derived fields. A report kind with more
// than one source layout owns one Mapping per layout, selected once at
// extraction entry by its discriminator value.
type Mapping struct {
	Columns []Column
	Derive  []Derived
}

// Apply converts raw text rows into records. Blank and placeholder cells
// become explicit nil entries. Cells that fail coercion keep their raw text
// so schema validation can reject that record with its identifying key; the
// value is never silently zeroed.
func (m Mapping) Apply(rows [][]string) []record.Record {
	out := make([]record.Record, 0, len(rows))

	for _, row := range rows {
		r := make(record.Record, len(m.Columns)+len(m.Derive))

		for _, col := range m.Columns {
			r[col.Name] = coerceCell(row, col)
		}

		for _, d := range m.Derive {
			v, err := d.Fn(r)
			if err != nil {
				r[d.Name] = nil
				continue
			}

			r[d.Name] = v
		}

		out = append(out, r)
	}

	return out
}

func coerceCell(row []string, col Column) any {
	if col.Index < 0 || col.Index >= len(row) {
		return nil
	}

	raw := strings.TrimSpace(row[col.Index])
	if Blank(raw) {
		return nil
	}

	switch col.Kind {
	case AsMoney:
		v, err := Money(raw)
		if err != nil {
			return raw
		}

		return v
	case AsInteger:
		v, err := Integer(raw)
		if err != nil {
			return raw
		}

		return v
	case AsDate:
		v, err := Date(raw)
		if err != nil {
			return raw
		}

		return v
	default:
		return raw
	}
}

// SumFields returns a Derived.Fn summing a fixed set of monetary fields,
// treating absent fields as zero. A non-numeric source value poisons the
// sum with an error so the bad row is attributed during validation.
func SumFields(fields ...string) func(record.Record) (any, error) {
	return func(r record.Record) (any, error) {
		var total float64

		for _, f := range fields {
			switch v := r[f].(type) {
			case nil:
			case float64:
				total += v
			case int64:
				total += float64(v)
			default:
				return nil, fmt.Errorf("field %q is not numeric", f)
			}
		}

		return total, nil
	}
}
