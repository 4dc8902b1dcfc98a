// Package collections reads persisted report documents back out as JSON.
package collections

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dparodi/hacienda/internal/docstore"
	"github.com/dparodi/hacienda/internal/record"
	"github.com/dparodi/hacienda/internal/report"
)

type Handler struct {
	store *docstore.Store
}

func NewHandler(store *docstore.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{name}", h.get)
}

type collectionResponse struct {
	Collection string          `json:"collection"`
	Count      int             `json:"count"`
	Documents  []record.Record `json:"documents"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if !report.KnownCollection(name) {
		http.Error(w, fmt.Sprintf("unknown collection %q", name), http.StatusNotFound)
		return
	}

	recs, err := h.store.ForCollection(name).GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if recs == nil {
		recs = []record.Record{}
	}

	resp := collectionResponse{Collection: name, Count: len(recs), Documents: recs}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
