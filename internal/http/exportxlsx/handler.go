// Package exportxlsx serves collections as spreadsheets, either streamed
// back as an xlsx download or pushed to the configured Google Sheets
// document.
package exportxlsx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dparodi/hacienda/internal/docstore"
	"github.com/dparodi/hacienda/internal/export"
	"github.com/dparodi/hacienda/internal/report"
)

type Handler struct {
	store         *docstore.Store
	exports       *export.Service
	spreadsheetID string
}

func NewHandler(store *docstore.Store, exports *export.Service, spreadsheetID string) *Handler {
	return &Handler{store: store, exports: exports, spreadsheetID: spreadsheetID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{collection}", h.download)
	r.Post("/{collection}/sheets", h.upload)
}

// sheetFor loads a collection into an export tab, distinguishing unknown
// collections from known-but-empty ones.
func (h *Handler) sheetFor(w http.ResponseWriter, r *http.Request) (export.Sheet, bool) {
	name := chi.URLParam(r, "collection")

	if !report.KnownCollection(name) {
		http.Error(w, fmt.Sprintf("unknown collection %q", name), http.StatusNotFound)
		return export.Sheet{}, false
	}

	recs, err := h.store.ForCollection(name).GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return export.Sheet{}, false
	}

	if len(recs) == 0 {
		http.Error(w, fmt.Sprintf("collection %q is empty", name), http.StatusNotFound)
		return export.Sheet{}, false
	}

	return export.FromRecords(name, recs, report.FieldsFor(name)), true
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tab, ok := h.sheetFor(w, r)
	if !ok {
		return
	}

	f, err := h.exports.Workbook([]export.Sheet{tab})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tab.Name+".xlsx"))

	if err := f.Write(w); err != nil {
		// Headers are gone already, nothing left to do but note it.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	tab, ok := h.sheetFor(w, r)
	if !ok {
		return
	}

	if err := h.exports.Upload(r.Context(), h.spreadsheetID, []export.Sheet{tab}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
