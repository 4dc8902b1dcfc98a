// Package syncer replaces a scoped slice of a persisted collection with a
// freshly validated batch. Every report kind funnels through the same
// delete-scope + reinsert protocol and returns the same result shape.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/schema"
)

// Filter selects persisted documents by exact field match.
type Filter map[string]any

//go:generate mockgen -source=syncer.go -destination=repository_mock.go -package=syncer

// Repository is the persisted-collection contract the engine runs against.
// Implementations provide filter-based read, bulk insert and filter-based
// delete; documents are only ever replaced whole, never patched in place.
type Repository interface {
	FindByFilter(ctx context.Context, f Filter) ([]record.Record, error)
	GetAll(ctx context.Context) ([]record.Record, error)
	SaveAll(ctx context.Context, rows []record.Record) error
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByFilter(ctx context.Context, f Filter) (int64, error)
}

// Result is the report card of one synchronization call.
type Result struct {
	Title       string            `json:"title"`
	Total       int               `json:"total_number_of_documents"`
	Inserted    int               `json:"inserted"`
	Deleted     int               `json:"deleted"`
	Errors      []schema.RowError `json:"errors"`
	DateCreated time.Time         `json:"date_created"`
}

// Engine runs the validate-and-sync protocol. The zero value uses the wall
// clock; tests inject a fixed clock.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt builds an engine with a fixed clock source.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Sync supersedes the scoped slice of the collection with the validated
// batch. An empty batch is a no-op: the collection is never cleared because
// an upstream extraction produced zero rows. A nil scope supersedes the whole
// collection. Delete and insert are two repository calls with no cross-step
// rollback; the call as a whole is the unit of retry and re-running it with
// the same batch converges to the same state.
func (e *Engine) Sync(ctx context.Context, repo Repository, title string, out schema.Outcome, scope Filter) (Result, error) {
	res := Result{
		Title:       title,
		Total:       len(out.Validated) + len(out.Errors),
		Errors:      out.Errors,
		DateCreated: e.now(),
	}

	if len(out.Validated) == 0 {
		return res, nil
	}

	var (
		deleted int64
		err     error
	)

	if scope == nil {
		deleted, err = repo.DeleteAll(ctx)
	} else {
		deleted, err = repo.DeleteByFilter(ctx, scope)
	}

	if err != nil {
		return res, fmt.Errorf("delete scope for %s: %w", title, err)
	}

	res.Deleted = int(deleted)

	if err := repo.SaveAll(ctx, out.Validated); err != nil {
		return res, fmt.Errorf("insert batch for %s: %w", title, err)
	}

	res.Inserted = len(out.Validated)

	return res, nil
}
