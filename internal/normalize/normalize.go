// Package normalize turns raw report rows (untyped text in source-specific
// column layouts) into uniformly shaped records. All functions are pure.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dparodi/hacienda/internal/record"
)

// placeholders are source values that mean "no value". They normalize to an
// explicit nil entry, never to a dropped field.
var placeholders = map[string]bool{
	"":    true,
	"-":   true,
	"NA":  true,
	"N/A": true,
}

// Blank reports whether a source cell holds a placeholder for an absent value.
func Blank(s string) bool {
	return placeholders[strings.TrimSpace(s)]
}

// Money parses an Argentine-locale monetary token ("." thousands separator,
// "," decimal separator) into a float. "5.951.535,09" parses to 5951535.09.
// Tokens without digits are an error, never a silent zero.
func Money(s string) (float64, error) {
	clean := strings.TrimSpace(s)

	// Accounting negatives: "(1.234,56)".
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	if !strings.ContainsAny(clean, "0123456789") {
		return 0, fmt.Errorf("not a monetary token: %q", s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}

	return d.InexactFloat64(), nil
}

// Integer parses a whole-number token, tolerating thousands dots ("1.234").
func Integer(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if !strings.ContainsAny(clean, "0123456789") {
		return 0, fmt.Errorf("not an integer token: %q", s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", s, err)
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("not an integer token: %q", s)
	}

	return d.IntPart(), nil
}

var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02", "2006-01-02 15:04:05"}

// Date parses a dd/mm/yyyy calendar date (dd-mm-yyyy and ISO accepted).
func Date(s string) (time.Time, error) {
	clean := strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse date %q: expected dd/mm/yyyy", s)
}

// ForwardFill propagates the last non-nil value down through nil entries,
// reconstructing hierarchical groupings from merged-cell spreadsheet columns.
func ForwardFill(col []any) []any {
	out := make([]any, len(col))

	var last any

	for i, v := range col {
		if v != nil {
			if s, ok := v.(string); !ok || !Blank(s) {
				last = v
			}
		}

		out[i] = last
	}

	return out
}

// Dedup removes records whose key fields repeat an earlier record, keeping
// the first occurrence and preserving order.
func Dedup(rows []record.Record, keyFields ...string) []record.Record {
	seen := make(map[string]bool, len(rows))
	out := make([]record.Record, 0, len(rows))

	for _, r := range rows {
		var sb strings.Builder

		for _, f := range keyFields {
			sb.WriteString(fmt.Sprint(r[f]))
			sb.WriteByte('\x1f')
		}

		k := sb.String()
		if seen[k] {
			continue
		}

		seen[k] = true

		out = append(out, r)
	}

	return out
}
