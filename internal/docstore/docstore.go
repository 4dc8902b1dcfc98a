// Package docstore persists report records as jsonb documents, one logical
// collection per report kind. Documents are inserted and deleted whole;
// nothing updates a document field in place.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/syncer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema bootstraps the documents table. Run once at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS documents (
			id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			collection text NOT NULL,
			doc        jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
		CREATE INDEX IF NOT EXISTS documents_doc_idx ON documents USING gin (doc jsonb_path_ops);
	`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring documents schema: %w", err)
	}

	return nil
}

// ForCollection returns a repository bound to one named collection. The
// handle is explicit: callers hold it for as long as they need it, there is
// no package-level collection state.
func (s *Store) ForCollection(name string) *Collection {
	return &Collection{db: s.db, name: name}
}

// Collection implements syncer.Repository over one documents slice.
type Collection struct {
	db   *sql.DB
	name string
}

var _ syncer.Repository = (*Collection)(nil)

func (c *Collection) FindByFilter(ctx context.Context, f syncer.Filter) ([]record.Record, error) {
	filter, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding filter: %w", err)
	}

	const query = `
		SELECT doc FROM documents
		WHERE collection = $1 AND doc @> $2::jsonb
		ORDER BY created_at, id
	`

	return c.queryDocs(ctx, query, c.name, filter)
}

func (c *Collection) GetAll(ctx context.Context) ([]record.Record, error) {
	const query = `
		SELECT doc FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`

	return c.queryDocs(ctx, query, c.name)
}

func (c *Collection) SaveAll(ctx context.Context, rows []record.Record) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3::jsonb)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		doc, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, uuid.New(), c.name, doc); err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}

	return nil
}

func (c *Collection) DeleteAll(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, c.name)
	if err != nil {
		return 0, fmt.Errorf("deleting collection %s: %w", c.name, err)
	}

	return res.RowsAffected()
}

func (c *Collection) DeleteByFilter(ctx context.Context, f syncer.Filter) (int64, error) {
	filter, err := json.Marshal(f)
	if err != nil {
		return 0, fmt.Errorf("encoding filter: %w", err)
	}

	const query = `DELETE FROM documents WHERE collection = $1 AND doc @> $2::jsonb`

	res, err := c.db.ExecContext(ctx, query, c.name, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting by filter in %s: %w", c.name, err)
	}

	return res.RowsAffected()
}

func (c *Collection) queryDocs(ctx context.Context, query string, args ...any) ([]record.Record, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []record.Record

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		var r record.Record
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}
