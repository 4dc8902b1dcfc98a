// Package report orchestrates the acquisition pipeline for every report
// kind: acquire raw rows from the kind's source, validate them against the
// kind's schema, and replace the kind's collection slice through the sync
// engine. One SyncResult per batch, whatever the source.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dparodi/hacienda/internal/extract/dbftable"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/report/bankmov"
	"github.com/dparodi/hacienda/internal/report/budget"
	"github.com/dparodi/hacienda/internal/report/payables"
	"github.com/dparodi/hacienda/internal/report/planning"
	"github.com/dparodi/hacienda/internal/report/providers"
	"github.com/dparodi/hacienda/internal/report/renditions"
	"github.com/dparodi/hacienda/internal/schema"
	"github.com/dparodi/hacienda/internal/syncer"
)

// RepoProvider hands out the repository bound to one named collection.
type RepoProvider func(collection string) syncer.Repository

// PageFactory opens a fresh automation page. Each portal flow gets its own
// page, so independent report kinds may run concurrently while one session
// stays strictly sequential inside.
type PageFactory func(ctx context.Context) (portal.Automation, error)

type Service struct {
	engine    *syncer.Engine
	repos     RepoProvider
	pages     PageFactory
	portalURL string
	dbf       *dbftable.Reader
	log       *slog.Logger
}

func NewService(engine *syncer.Engine, repos RepoProvider, pages PageFactory, portalURL string, dbf *dbftable.Reader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		engine:    engine,
		repos:     repos,
		pages:     pages,
		portalURL: portalURL,
		dbf:       dbf,
		log:       log,
	}
}

// SyncBudget downloads and syncs the budget execution report for each
// requested fiscal year over one portal session.
func (s *Service) SyncBudget(ctx context.Context, creds portal.Credentials, ejercicios []int) ([]syncer.Result, error) {
	return s.syncPortal(ctx, budget.Report{}, budget.Schema(), budget.CollectionName, creds, ejercicios)
}

// SyncPayables downloads and syncs the floating-debt ledger per year over
// one portal session.
func (s *Service) SyncPayables(ctx context.Context, creds portal.Credentials, ejercicios []int) ([]syncer.Result, error) {
	return s.syncPortal(ctx, payables.Report{}, payables.Schema(), payables.CollectionName, creds, ejercicios)
}

// syncPortal drives one authenticated session through the sequential
// per-year loop of one portal report. The session is logged out on every
// path; a download or sync failure aborts the remaining years, and results
// for years already synced are returned alongside the error.
func (s *Service) syncPortal(ctx context.Context, rep portal.Report, sch schema.Schema, collection string, creds portal.Credentials, ejercicios []int) ([]syncer.Result, error) {
	if len(ejercicios) == 0 {
		return nil, fmt.Errorf("no fiscal years requested for %s", rep.Name())
	}

	page, err := s.pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening automation page: %w", err)
	}

	sess := portal.NewSession(page, s.portalURL, s.log)
	defer sess.Logout(ctx)

	if err := sess.Login(ctx, creds); err != nil {
		return nil, err
	}

	if err := sess.GoToReports(ctx); err != nil {
		return nil, err
	}

	if err := rep.GoToSpecificReport(ctx, sess); err != nil {
		return nil, err
	}

	var results []syncer.Result

	for _, ejercicio := range ejercicios {
		path, err := rep.DownloadReport(ctx, sess, ejercicio)
		if err != nil {
			return results, fmt.Errorf("%s %d: %w", rep.Name(), ejercicio, err)
		}

		rows, err := rep.ProcessRows(path)
		if err != nil {
			return results, fmt.Errorf("%s %d: %w", rep.Name(), ejercicio, err)
		}

		stampEjercicio(rows, ejercicio)

		res, err := s.runSync(ctx, collection, sch, rows, ejercicio, syncer.Filter{"ejercicio": ejercicio})
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}

// SyncPayablesFile syncs the floating-debt ledger from a PDF already on
// disk, superseding the given fiscal year.
func (s *Service) SyncPayablesFile(ctx context.Context, path string, ejercicio int) (syncer.Result, error) {
	rows, err := payables.FromFile(path)
	if err != nil {
		return syncer.Result{}, err
	}

	stampEjercicio(rows, ejercicio)

	return s.runSync(ctx, payables.CollectionName, payables.Schema(), rows, ejercicio, syncer.Filter{"ejercicio": ejercicio})
}

// SyncBankMovements syncs one fiscal year of movements out of a SQLite
// snapshot. Rows from other years are ignored so the delete scope and the
// inserted batch always describe the same slice; rows with an unparseable
// movement date go through validation and come back as row errors.
func (s *Service) SyncBankMovements(ctx context.Context, path string, ejercicio int) (syncer.Result, error) {
	rows, err := bankmov.FromSnapshot(ctx, path)
	if err != nil {
		return syncer.Result{}, err
	}

	rows = keepEjercicio(rows, ejercicio)

	return s.runSync(ctx, bankmov.CollectionName, bankmov.Schema(), rows, ejercicio, syncer.Filter{"ejercicio": ejercicio})
}

// SyncRenditions syncs one fiscal year of provider renditions from a legacy
// delimited export.
func (s *Service) SyncRenditions(ctx context.Context, r io.Reader, ejercicio int) (syncer.Result, error) {
	rows, err := renditions.FromReader(r)
	if err != nil {
		return syncer.Result{}, err
	}

	rows = keepEjercicio(rows, ejercicio)

	return s.runSync(ctx, renditions.CollectionName, renditions.Schema(), rows, ejercicio, syncer.Filter{"ejercicio": ejercicio})
}

// SyncPlanning replaces the whole planning collection from the historical
// workbook; the sheet is a full snapshot, so the scope is the collection.
func (s *Service) SyncPlanning(ctx context.Context, path string) (syncer.Result, error) {
	rows, err := planning.FromFile(path)
	if err != nil {
		return syncer.Result{}, err
	}

	return s.runSync(ctx, planning.CollectionName, planning.Schema(), rows, 0, nil)
}

// SyncProviders replaces the whole provider master from the legacy DBF
// table.
func (s *Service) SyncProviders(ctx context.Context) (syncer.Result, error) {
	rows, err := providers.FromTable(ctx, s.dbf)
	if err != nil {
		return syncer.Result{}, err
	}

	return s.runSync(ctx, providers.CollectionName, providers.Schema(), rows, 0, nil)
}

func (s *Service) runSync(ctx context.Context, collection string, sch schema.Schema, rows []record.Record, ejercicio int, scope syncer.Filter) (syncer.Result, error) {
	outcome, err := schema.Validate(rows, sch)
	if err != nil {
		return syncer.Result{}, err
	}

	title := collection
	if ejercicio > 0 {
		title = fmt.Sprintf("%s %d", collection, ejercicio)
	}

	res, err := s.engine.Sync(ctx, s.repos(collection), title, outcome, scope)
	if err != nil {
		return res, err
	}

	s.log.Info("report synced",
		"collection", collection,
		"total", res.Total,
		"inserted", res.Inserted,
		"deleted", res.Deleted,
		"row_errors", len(res.Errors),
	)

	return res, nil
}

// stampEjercicio forces the requested fiscal year onto every record so the
// batch matches its delete scope.
func stampEjercicio(rows []record.Record, ejercicio int) {
	for _, r := range rows {
		r["ejercicio"] = int64(ejercicio)
	}
}

// keepEjercicio drops records whose parsed fiscal year differs from the
// requested one. Records with no parsed year are kept: their date failed
// normalization, and validation must report them under their identifying
// key, not lose them here.
func keepEjercicio(rows []record.Record, ejercicio int) []record.Record {
	out := rows[:0]

	for _, r := range rows {
		if v, ok := r["ejercicio"].(int64); ok && v != int64(ejercicio) {
			continue
		}

		out = append(out, r)
	}

	return out
}
