// Package sqlitesnap reads tables out of SQLite snapshot files exported by
// one of the upstream source systems. Snapshots are opened read-only; this
// service never writes to them.
package sqlitesnap

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dparodi/hacienda/internal/extract"
	"github.com/dparodi/hacienda/internal/record"
)

// ReadTable loads every row of the named table as records keyed by the
// table's own column names. Values keep the driver's scalar types; []byte
// columns are converted to string.
func ReadTable(ctx context.Context, path, table string) ([]record.Record, error) {
	if err := extract.CheckFile(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}
	defer db.Close()

	// Trial query before streaming: a non-SQLite file fails here, not mid-read.
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	var out []record.Record

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row of %s: %w", table, err)
		}

		r := make(record.Record, len(cols))

		for i, col := range cols {
			switch v := values[i].(type) {
			case []byte:
				r[col] = string(v)
			default:
				r[col] = v
			}
		}

		out = append(out, r)
	}

	return out, rows.Err()
}
