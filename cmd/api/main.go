package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dparodi/hacienda/internal/config"
	"github.com/dparodi/hacienda/internal/database"
	"github.com/dparodi/hacienda/internal/docstore"
	"github.com/dparodi/hacienda/internal/export"
	"github.com/dparodi/hacienda/internal/extract/dbftable"
	haciendaHttp "github.com/dparodi/hacienda/internal/http"
	collectionsHandler "github.com/dparodi/hacienda/internal/http/collections"
	exportHandler "github.com/dparodi/hacienda/internal/http/exportxlsx"
	syncHandler "github.com/dparodi/hacienda/internal/http/syncreports"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/portal/chromium"
	"github.com/dparodi/hacienda/internal/report"
	"github.com/dparodi/hacienda/internal/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := docstore.New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	pages := func(ctx context.Context) (portal.Automation, error) {
		return chromium.New(ctx, cfg.Portal.DownloadDir, cfg.Portal.Headless, cfg.Portal.StepTimeout)
	}

	var (
		dbfReader     = dbftable.NewReader(cfg.DBF.DataDir, cfg.DBF.ExportTool)
		repos         = func(collection string) syncer.Repository { return store.ForCollection(collection) }
		reportService = report.NewService(syncer.NewEngine(), repos, pages, cfg.Portal.URL, dbfReader, slog.Default())
		exportService = export.NewService(cfg.Sheets.CredentialsFile)
	)

	var (
		syncH        = syncHandler.NewHandler(reportService)
		exportH      = exportHandler.NewHandler(store, exportService, cfg.Sheets.SpreadsheetID)
		collectionsH = collectionsHandler.NewHandler(store)
	)

	router := haciendaHttp.New(syncH, exportH, collectionsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
