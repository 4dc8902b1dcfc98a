// Package syncreports exposes the on-demand acquisition endpoints: each one
// triggers a full acquire→validate→sync run for one report kind and answers
// with the uniform sync result shape.
package syncreports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dparodi/hacienda/internal/extract"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/report"
	"github.com/dparodi/hacienda/internal/syncer"
)

const maxUploadBytes = 64 << 20

type Handler struct {
	reports *report.Service
}

func NewHandler(reports *report.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/budget", h.syncBudget)
	r.Post("/payables", h.syncPayables)
	r.Post("/payables/file", h.syncPayablesFile)
	r.Post("/bank-movements", h.syncBankMovements)
	r.Post("/renditions", h.syncRenditions)
	r.Post("/planning", h.syncPlanning)
	r.Post("/providers", h.syncProviders)
}

type portalRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Ejercicios []int  `json:"ejercicios"`
}

func (h *Handler) syncBudget(w http.ResponseWriter, r *http.Request) {
	h.portalSync(w, r, h.reports.SyncBudget)
}

func (h *Handler) syncPayables(w http.ResponseWriter, r *http.Request) {
	h.portalSync(w, r, h.reports.SyncPayables)
}

func (h *Handler) portalSync(w http.ResponseWriter, r *http.Request, run func(context.Context, portal.Credentials, []int) ([]syncer.Result, error)) {
	var req portalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	if len(req.Ejercicios) == 0 {
		http.Error(w, "at least one ejercicio is required", http.StatusBadRequest)
		return
	}

	creds := portal.Credentials{Username: req.Username, Password: req.Password}

	results, err := run(r.Context(), creds, req.Ejercicios)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) syncPayablesFile(w http.ResponseWriter, r *http.Request) {
	path, ejercicio, cleanup, ok := h.uploadToTemp(w, r, "*.pdf", true)
	if !ok {
		return
	}
	defer cleanup()

	res, err := h.reports.SyncPayablesFile(r.Context(), path, ejercicio)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []syncer.Result{res})
}

func (h *Handler) syncBankMovements(w http.ResponseWriter, r *http.Request) {
	path, ejercicio, cleanup, ok := h.uploadToTemp(w, r, "*.sqlite3", true)
	if !ok {
		return
	}
	defer cleanup()

	res, err := h.reports.SyncBankMovements(r.Context(), path, ejercicio)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []syncer.Result{res})
}

func (h *Handler) syncRenditions(w http.ResponseWriter, r *http.Request) {
	file, ejercicio, ok := h.uploadFile(w, r, true)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.reports.SyncRenditions(r.Context(), file, ejercicio)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []syncer.Result{res})
}

func (h *Handler) syncPlanning(w http.ResponseWriter, r *http.Request) {
	path, _, cleanup, ok := h.uploadToTemp(w, r, "*.xls", false)
	if !ok {
		return
	}
	defer cleanup()

	res, err := h.reports.SyncPlanning(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []syncer.Result{res})
}

func (h *Handler) syncProviders(w http.ResponseWriter, r *http.Request) {
	res, err := h.reports.SyncProviders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []syncer.Result{res})
}

// uploadFile parses the multipart form and returns the uploaded file and,
// when required, the ejercicio form value.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request, needEjercicio bool) (multipart.File, int, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, 0, false
	}

	ejercicio := 0

	if needEjercicio {
		var err error

		ejercicio, err = strconv.Atoi(r.FormValue("ejercicio"))
		if err != nil || ejercicio <= 0 {
			http.Error(w, "ejercicio field is required", http.StatusBadRequest)
			return nil, 0, false
		}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, 0, false
	}

	return file, ejercicio, true
}

// uploadToTemp saves the uploaded file to a temp path for the extractors
// that need to read from disk.
func (h *Handler) uploadToTemp(w http.ResponseWriter, r *http.Request, pattern string, needEjercicio bool) (string, int, func(), bool) {
	file, ejercicio, ok := h.uploadFile(w, r, needEjercicio)
	if !ok {
		return "", 0, nil, false
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return "", 0, nil, false
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		http.Error(w, "failed to store upload", http.StatusInternalServerError)

		return "", 0, nil, false
	}

	tmp.Close()

	cleanup := func() { os.Remove(tmp.Name()) }

	return tmp.Name(), ejercicio, cleanup, true
}

// writeError maps the pipeline error taxonomy onto HTTP statuses:
// authentication failures are the client's problem, missing sources are not
// found, format mismatches are bad input, the rest is ours.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portal.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, extract.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, extract.ErrBadFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
