// Package schema validates normalized records against a typed per-report
// schema, partitioning each batch into validated records and per-record
// errors attributed to the record's identifying field.
package schema

import (
	"errors"
	"fmt"
	"time"

	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
)

// Kind is the target type of a schema field.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Date
	Bool
)

// Field describes one column of a report schema.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema is the typed shape of one report kind.
type Schema struct {
	Name    string
	IDField string
	Fields  []Field
}

// RowError attributes one failed record to its identifying key.
type RowError struct {
	Key     string `json:"identifying_key"`
	Message string `json:"message"`
}

// Outcome is the exclusive partition of a batch: every input record lands in
// exactly one bucket, and Validated preserves source order.
type Outcome struct {
	Validated []record.Record
	Errors    []RowError
}

// ErrBadSchema reports a schema that cannot validate anything. It is the only
// condition that aborts a whole Validate call; row failures never do.
var ErrBadSchema = errors.New("schema has no fields or no identifying field")

// Validate coerces every record to the schema. Row-level failures are
// collected, never raised; only a malformed schema aborts the call.
func Validate(rows []record.Record, s Schema) (Outcome, error) {
	if len(s.Fields) == 0 || s.IDField == "" {
		return Outcome{}, fmt.Errorf("%w: %s", ErrBadSchema, s.Name)
	}

	out := Outcome{}

	for i, row := range rows {
		clean, err := coerceRecord(row, s)
		if err != nil {
			out.Errors = append(out.Errors, RowError{
				Key:     row.Key(s.IDField, i),
				Message: err.Error(),
			})

			continue
		}

		out.Validated = append(out.Validated, clean)
	}

	return out, nil
}

func coerceRecord(row record.Record, s Schema) (record.Record, error) {
	clean := make(record.Record, len(s.Fields))

	for _, f := range s.Fields {
		v, err := coerceValue(row[f.Name], f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		if v == nil && f.Required {
			return nil, fmt.Errorf("field %q: required value missing", f.Name)
		}

		clean[f.Name] = v
	}

	return clean, nil
}

func coerceValue(v any, kind Kind) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch kind {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}

		return fmt.Sprint(v), nil

	case Int:
		switch t := v.(type) {
		case int64:
			return t, nil
		case int:
			return int64(t), nil
		case float64:
			if t != float64(int64(t)) {
				return nil, fmt.Errorf("value %v is not a whole number", t)
			}

			return int64(t), nil
		case string:
			return normalize.Integer(t)
		}

	case Float:
		switch t := v.(type) {
		case float64:
			return t, nil
		case int64:
			return float64(t), nil
		case int:
			return float64(t), nil
		case string:
			return normalize.Money(t)
		}

	case Date:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			return normalize.Date(t)
		}

	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}

	return nil, fmt.Errorf("value %v (%T) does not fit %s", v, v, kindName(kind))
}

func kindName(k Kind) string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Date:
		return "date"
	case Bool:
		return "bool"
	}

	return "unknown"
}
