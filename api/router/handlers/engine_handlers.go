package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// ExtractCommentsHandler handles POST requests to scan text for comments.
// @Summary Extract comment records from text
// @Description Scans the supplied document text and returns the anchored comment records found, in ascending line order. The text itself is not modified.
// @Tags Engine
// @Accept json
// @Produce json
// @Param extract_request body models.ExtractRequest true "Document text and file type"
// @Success 200 {object} models.ExtractResponse "Records found in the text"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or missing fileType"
// @Router /extract [post]
func ExtractCommentsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("ExtractCommentsHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.FileType) == "" {
		http.Error(w, "fileType is required", http.StatusBadRequest)
		return
	}

	records := core.Extract(req.Text, req.FileType)
	if records == nil { // Ensure we return an empty array, not null
		records = []models.CommentRecord{}
	}
	engineOps.WithLabelValues("extract").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ExtractResponse{Records: records})
}

// InjectCommentsHandler handles POST requests to re-attach records to clean text.
// @Summary Inject comment records into clean text
// @Description Re-attaches persisted records to the supplied clean text by anchor fingerprint and context. Records whose anchor no longer exists are returned as orphans, not silently dropped.
// @Tags Engine
// @Accept json
// @Produce json
// @Param inject_request body models.InjectRequest true "Clean text plus the records to re-attach"
// @Success 200 {object} models.InjectResponse "Rebuilt text and per-record outcome counts"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload"
// @Router /inject [post]
func InjectCommentsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.InjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("InjectCommentsHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	out, stats := core.Inject(req.Text, req.Records, req.IncludePrivate)
	engineOps.WithLabelValues("inject").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.InjectResponse{
		Text:     out,
		Injected: stats.Injected,
		Skipped:  stats.Skipped,
		Orphans:  stats.Orphans,
	})
}

// StripCommentsHandler handles POST requests to remove comments from text.
// @Summary Strip comments from text
// @Description Removes the comments matching the supplied records from the text, honouring alwaysVisible and private-retention flags. Stripping already-clean text is a no-op.
// @Tags Engine
// @Accept json
// @Produce json
// @Param strip_request body models.StripRequest true "Document text, file type and the records carrying visibility flags"
// @Success 200 {object} models.StripResponse "Stripped text and removal counts"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or missing fileType"
// @Router /strip [post]
func StripCommentsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.StripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("StripCommentsHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.FileType) == "" {
		http.Error(w, "fileType is required", http.StatusBadRequest)
		return
	}

	out, stats := core.Strip(req.Text, req.FileType, req.Records, req.KeepPrivate)
	engineOps.WithLabelValues("strip").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.StripResponse{
		Text:           out,
		RemovedBlocks:  stats.RemovedBlocks,
		RemovedInlines: stats.RemovedInlines,
		KeptVisible:    stats.KeptVisible,
	})
}

// ReconcileSetHandler handles POST requests to fold text into a persisted set.
// @Summary Reconcile text against a persisted set
// @Description Folds the current document text into the supplied persisted set according to the mode the text was rendered in, and returns the next set plus merge counts. Omit the set for a first pass.
// @Tags Engine
// @Accept json
// @Produce json
// @Param reconcile_request body models.ReconcileRequest true "Document text, file type, previous set and rendering mode"
// @Success 200 {object} models.ReconcileResponse "Next persisted set and merge counts"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload, missing fileType or unknown mode"
// @Router /reconcile [post]
func ReconcileSetHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("ReconcileSetHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.FileType) == "" {
		http.Error(w, "fileType is required", http.StatusBadRequest)
		return
	}
	if !req.Mode.Valid() {
		http.Error(w, "mode must be \"clean\" or \"commented\"", http.StatusBadRequest)
		return
	}

	set, stats := core.Reconcile(req.Text, req.FileType, req.Set, req.Mode, core.ReconcileOptions{IncludePrivate: req.IncludePrivate})
	engineOps.WithLabelValues("reconcile").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ReconcileResponse{
		Set:     set,
		Matched: stats.Matched,
		Added:   stats.Added,
		Routed:  stats.CleanRouted,
		Cleared: stats.CleanCleared,
		Dropped: stats.Dropped,
	})
}

// DetectModeHandler handles POST requests to classify text as clean or commented.
// @Summary Detect the rendering mode of text
// @Description Reports whether the supplied text currently has its comments visible (commented) or hidden (clean), sampling persisted records against the text when a set is supplied.
// @Tags Engine
// @Accept json
// @Produce json
// @Param detect_request body models.DetectRequest true "Document text, file type and optional persisted set"
// @Success 200 {object} models.DetectResponse "Detected mode"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or missing fileType"
// @Router /detect [post]
func DetectModeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("DetectModeHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.FileType) == "" {
		http.Error(w, "fileType is required", http.StatusBadRequest)
		return
	}

	mode := core.DetectMode(req.Text, req.FileType, req.Set)
	engineOps.WithLabelValues("detect").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DetectResponse{Mode: mode})
}
