package record

import (
	"fmt"
	"time"
)

// Record is one flat report row: field name to scalar value.
// Values are string, int64, float64, time.Time, bool or nil.
// A nil entry means the source held a blank/placeholder value; the field is
// kept so every record of a batch carries the same shape.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Float returns the field as a float64. Integer values are widened.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}

	return 0
}

// Int returns the field as an int64. Float values are truncated.
func (r Record) Int(field string) int64 {
	switch v := r[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}

	return 0
}

// Date returns the field as a time.Time, or the zero time when absent.
func (r Record) Date(field string) time.Time {
	t, _ := r[field].(time.Time)
	return t
}

// Key renders the identifying field as a string for error attribution.
// Absent keys render as "<row N>" using the provided source position.
func (r Record) Key(field string, pos int) string {
	v, ok := r[field]
	if !ok || v == nil {
		return fmt.Sprintf("<row %d>", pos+1)
	}

	switch t := v.(type) {
	case string:
		if t == "" {
			return fmt.Sprintf("<row %d>", pos+1)
		}

		return t
	case time.Time:
		return t.Format(time.DateOnly)
	default:
		return fmt.Sprint(t)
	}
}
