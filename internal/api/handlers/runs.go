package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelscribe/backend/internal/db"
	"github.com/reelscribe/backend/internal/storage"
)

type RunsHandler struct {
	db       *db.Database
	dataPath string
}

func NewRunsHandler(database *db.Database, dataPath string) *RunsHandler {
	return &RunsHandler{db: database, dataPath: dataPath}
}

// ListRuns returns run history, newest first.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.db.ListRuns(limit)
	if err != nil {
		jsonError(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"runs": runs}, http.StatusOK)
}

// GetArtifacts lists the files a run left behind under the data directory.
func (h *RunsHandler) GetArtifacts(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	run, err := h.db.GetRun(runID)
	if err != nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}

	artifacts, err := storage.ListRunArtifacts(h.dataPath, run.RunID)
	if err != nil {
		jsonError(w, "failed to list artifacts", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"run":       run,
		"artifacts": artifacts,
	}, http.StatusOK)
}
