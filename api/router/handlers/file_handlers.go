package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

// docOpStatus maps a manager error onto an HTTP status code.
func docOpStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNoAnnotationData):
		return http.StatusConflict
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "no comment syntax known"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// runFileOp decodes a FileOpRequest, applies op through the session
// manager and writes the outcome. Shared by toggle/hide/show/sync.
func runFileOp(w http.ResponseWriter, r *http.Request, name string, op func(path, fileType string) (*session.OpResult, error)) {
	if !requireManager(w) {
		return
	}
	var req models.FileOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("FileOpHandler(%s): Error decoding request body: %v", name, err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Path) == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if req.IncludePrivate != nil {
		manager.SetIncludePrivate(req.Path, *req.IncludePrivate)
	}

	start := time.Now()
	res, err := op(req.Path, req.FileType)
	fileOpDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("FileOpHandler(%s): operation failed for %s: %v", name, req.Path, err)
		fileOps.WithLabelValues(name, "error").Inc()
		http.Error(w, err.Error(), docOpStatus(err))
		return
	}
	fileOps.WithLabelValues(name, "ok").Inc()
	if res.Orphaned > 0 {
		orphansArchived.Add(float64(res.Orphaned))
	}
	PublishEvent(EngineEvent{
		Type:     name,
		File:     res.Path,
		Mode:     res.Mode,
		Changed:  res.Changed,
		Orphaned: res.Orphaned,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// ToggleFileHandler handles POST requests to flip a document between renditions.
// @Summary Toggle a document between commented and clean
// @Description Detects the document's current rendering mode and switches it to the other, persisting the comment set either way.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_request body models.FileOpRequest true "Document to toggle"
// @Success 200 {object} session.OpResult "Operation outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or unknown file type"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 409 {object} models.ErrorResponse "No persisted comment set to restore from"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/toggle [post]
func ToggleFileHandler(w http.ResponseWriter, r *http.Request) {
	runFileOp(w, r, "toggle", func(path, fileType string) (*session.OpResult, error) {
		return manager.Toggle(path, fileType)
	})
}

// HideFileHandler handles POST requests to strip a document's comments.
// @Summary Hide a document's comments
// @Description Reconciles the document's visible comments into its persisted set, then rewrites the document without them. Already-clean documents are left untouched.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_request body models.FileOpRequest true "Document to hide comments in"
// @Success 200 {object} session.OpResult "Operation outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or unknown file type"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/hide [post]
func HideFileHandler(w http.ResponseWriter, r *http.Request) {
	runFileOp(w, r, "hide", func(path, fileType string) (*session.OpResult, error) {
		return manager.Hide(path, fileType)
	})
}

// ShowFileHandler handles POST requests to restore a document's comments.
// @Summary Show a document's hidden comments
// @Description Injects the persisted comments back into the document, merging in any edits made while it was clean.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_request body models.FileOpRequest true "Document to restore comments in"
// @Success 200 {object} session.OpResult "Operation outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or unknown file type"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 409 {object} models.ErrorResponse "No persisted comment set to restore from"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/show [post]
func ShowFileHandler(w http.ResponseWriter, r *http.Request) {
	runFileOp(w, r, "show", func(path, fileType string) (*session.OpResult, error) {
		return manager.Show(path, fileType)
	})
}

// SyncFileHandler handles POST requests to fold a document into its set.
// @Summary Sync a document's comment set
// @Description Reconciles the document's current text against its persisted set without rewriting the document. This is the same operation the background watcher runs after a save.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_request body models.FileOpRequest true "Document to sync"
// @Success 200 {object} session.OpResult "Operation outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload or unknown file type"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/sync [post]
func SyncFileHandler(w http.ResponseWriter, r *http.Request) {
	runFileOp(w, r, "sync", func(path, fileType string) (*session.OpResult, error) {
		return manager.Sync(path, fileType)
	})
}

// MarkCommentHandler handles POST requests to flag a comment at a line.
// @Summary Mark a comment as always-visible or private
// @Description Flags the comment at a 1-based document line. Omitted flag fields are left as stored, so one flag can be set without clobbering the other. The document is rewritten when the flag change alters visibility.
// @Tags Files
// @Accept json
// @Produce json
// @Param mark_request body models.MarkRequest true "Document line and the flags to apply"
// @Success 200 {object} session.OpResult "Operation outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request payload, no flags given or no comment at the line"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/mark [post]
func MarkCommentHandler(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w) {
		return
	}
	var req models.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("MarkCommentHandler: Error decoding request body: %v", err)
		http.Error(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Path) == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if req.Line < 1 {
		http.Error(w, "line must be a 1-based line number", http.StatusBadRequest)
		return
	}

	res, err := manager.Mark(req.Path, req.FileType, req.Line, session.MarkFlags{
		AlwaysVisible: req.AlwaysVisible,
		IsPrivate:     req.IsPrivate,
	})
	if err != nil {
		logger.Error("MarkCommentHandler: marking %s:%d failed: %v", req.Path, req.Line, err)
		status := docOpStatus(err)
		if strings.Contains(err.Error(), "nothing to mark") || strings.Contains(err.Error(), "no comment found") {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	fileOps.WithLabelValues("mark", "ok").Inc()
	PublishEvent(EngineEvent{Type: "mark", File: res.Path, Mode: res.Mode, Changed: res.Changed})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// GetFileStatusHandler handles GET requests for a document's current state.
// @Summary Get a document's comment status
// @Description Reports the document's detected mode, record counts per partition, side-file paths and pending orphan count without modifying anything.
// @Tags Files
// @Produce json
// @Param path query string true "Workspace-relative or absolute document path"
// @Param type query string false "File type override for marker lookup"
// @Success 200 {object} session.DocStatus "Document status"
// @Failure 400 {object} models.ErrorResponse "Missing path or unknown file type"
// @Failure 404 {object} models.ErrorResponse "Document not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /files/status [get]
func GetFileStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w) {
		return
	}
	path := r.URL.Query().Get("path")
	if strings.TrimSpace(path) == "" {
		http.Error(w, "path query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := manager.Status(path, r.URL.Query().Get("type"))
	if err != nil {
		logger.Error("GetFileStatusHandler: status for %s failed: %v", path, err)
		http.Error(w, err.Error(), docOpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
