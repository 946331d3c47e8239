package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/reelscribe/backend/internal/db"
	"github.com/reelscribe/backend/internal/pipeline"
	"github.com/reelscribe/backend/internal/urldetect"
)

type ProcessHandler struct {
	pipeline *pipeline.Pipeline
	db       *db.Database
}

func NewProcessHandler(pipe *pipeline.Pipeline, database *db.Database) *ProcessHandler {
	return &ProcessHandler{pipeline: pipe, db: database}
}

type processRequest struct {
	VideoURL string `json:"video_url"`
	Source   string `json:"source"`
}

// ProcessURL runs the acquisition pipeline for a submitted video URL. The URL
// is rejected before any I/O if it is empty or not from a supported platform.
func (h *ProcessHandler) ProcessURL(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.VideoURL == "" {
		jsonError(w, "video_url cannot be empty", http.StatusBadRequest)
		return
	}
	if !urldetect.Validate(req.VideoURL) {
		jsonError(w, "invalid or unsupported video URL", http.StatusBadRequest)
		return
	}

	log.Printf("[api] process request from %s: %s", req.Source, req.VideoURL)

	result, err := h.pipeline.Acquire(r.Context(), req.VideoURL)
	if err != nil {
		h.recordFailure(req.VideoURL, err)

		var pipeErr *pipeline.Error
		if errors.As(err, &pipeErr) && pipeErr.Kind == pipeline.KindInvalidInput {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "failed to process video: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.db.RecordRun(result.RunID, req.VideoURL, string(result.Source), result.TranscriptFilePath); err != nil {
		log.Printf("[api] record run %s: %v", result.RunID, err)
	}

	jsonResponse(w, result, http.StatusOK)
}

func (h *ProcessHandler) recordFailure(videoURL string, err error) {
	var pipeErr *pipeline.Error
	if !errors.As(err, &pipeErr) || pipeErr.RunID == "" {
		return // no run was created, nothing to record
	}
	if dbErr := h.db.RecordRunFailure(pipeErr.RunID, videoURL, err.Error()); dbErr != nil {
		log.Printf("[api] record failed run %s: %v", pipeErr.RunID, dbErr)
	}
}
