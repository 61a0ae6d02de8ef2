package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// requireArchive guards handlers that need the SQLite orphan archive.
func requireArchive(w http.ResponseWriter) bool {
	if database.DB == nil {
		http.Error(w, "Orphan archive is not available", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// GetAllOrphansHandler handles GET requests to list archived comments.
// @Summary List orphaned comments
// @Description Retrieves archived comments, newest first. With a file filter the full archive for that document is returned; otherwise results are paginated across all files.
// @Tags Orphans
// @Produce json
// @Param file query string false "Limit to one document (store-relative path)"
// @Param include_restored query boolean false "Include rows already restored" default(false)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(25)
// @Success 200 {object} models.PaginatedResponse "Archived comments"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Failure 503 {object} models.ErrorResponse "Orphan archive unavailable"
// @Router /orphans [get]
func GetAllOrphansHandler(w http.ResponseWriter, r *http.Request) {
	if !requireArchive(w) {
		return
	}

	filters := models.OrphanFilters{File: r.URL.Query().Get("file")}
	filters.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if filters.Page <= 0 {
		filters.Page = 1
	}
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if filters.Limit <= 0 {
		filters.Limit = 25
	} else if filters.Limit > 200 {
		filters.Limit = 200
	}
	if v := r.URL.Query().Get("include_restored"); v != "" {
		filters.IncludeRestored, _ = strconv.ParseBool(v)
	}

	var orphans []models.OrphanedComment
	var total int64
	var err error
	if filters.File != "" {
		orphans, err = database.GetOrphanedCommentsByFile(filters.File, filters.IncludeRestored)
		total = int64(len(orphans))
	} else {
		orphans, total, err = database.GetAllOrphanedCommentsPaginated(filters.Limit, (filters.Page-1)*filters.Limit)
	}
	if err != nil {
		logger.Error("GetAllOrphansHandler: Error fetching orphaned comments: %v", err)
		http.Error(w, "Failed to retrieve orphaned comments", http.StatusInternalServerError)
		return
	}
	if orphans == nil { // Ensure we return an empty array, not null
		orphans = []models.OrphanedComment{}
	}

	totalPages := 0
	if filters.Limit > 0 {
		totalPages = int((total + int64(filters.Limit) - 1) / int64(filters.Limit))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PaginatedResponse{
		Page:         filters.Page,
		Limit:        filters.Limit,
		TotalRecords: total,
		TotalPages:   totalPages,
		Records:      orphans,
	})
}

// GetOrphanByIDHandler handles GET requests for a single archived comment.
// @Summary Get an orphaned comment
// @Description Retrieves one archived comment by its ID, including the serialized record payload.
// @Tags Orphans
// @Produce json
// @Param orphan_id path string true "Orphan ID"
// @Success 200 {object} models.OrphanedComment "Archived comment"
// @Failure 404 {object} models.ErrorResponse "Orphaned comment not found"
// @Failure 503 {object} models.ErrorResponse "Orphan archive unavailable"
// @Router /orphans/{orphan_id} [get]
func GetOrphanByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !requireArchive(w) {
		return
	}
	orphanID := chi.URLParam(r, "orphan_id")

	orphan, err := database.GetOrphanedCommentByID(orphanID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			logger.Error("GetOrphanByIDHandler: Orphaned comment %s not found: %v", orphanID, err)
			http.Error(w, "Orphaned comment not found", http.StatusNotFound)
		} else {
			logger.Error("GetOrphanByIDHandler: Error fetching orphaned comment %s: %v", orphanID, err)
			http.Error(w, "Failed to retrieve orphaned comment", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orphan)
}

// RestoreOrphanHandler handles POST requests to re-emit an archived comment.
// @Summary Restore an orphaned comment
// @Description Renders the archived comment as a standalone block. With write=true the block is prepended to the comment's original document and the archive row is stamped restored; otherwise the block is only returned.
// @Tags Orphans
// @Produce json
// @Param orphan_id path string true "Orphan ID"
// @Param write query boolean false "Prepend the block to the original document" default(false)
// @Success 200 {object} session.RestoreResult "Where the comment went"
// @Failure 404 {object} models.ErrorResponse "Orphaned comment not found"
// @Failure 409 {object} models.ErrorResponse "Orphaned comment was already restored"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Failure 503 {object} models.ErrorResponse "Orphan archive unavailable"
// @Router /orphans/{orphan_id}/restore [post]
func RestoreOrphanHandler(w http.ResponseWriter, r *http.Request) {
	if !requireArchive(w) || !requireManager(w) {
		return
	}
	orphanID := chi.URLParam(r, "orphan_id")
	write := false
	if v := r.URL.Query().Get("write"); v != "" {
		write, _ = strconv.ParseBool(v)
	}

	res, err := manager.RestoreOrphan(orphanID, write)
	if err != nil {
		logger.Error("RestoreOrphanHandler: restoring %s failed: %v", orphanID, err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			http.Error(w, "Orphaned comment not found", http.StatusNotFound)
		case strings.Contains(err.Error(), "already restored"):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to restore orphaned comment", http.StatusInternalServerError)
		}
		return
	}
	if res.Written {
		orphansRestored.Inc()
		PublishEvent(EngineEvent{Type: "orphan_restored", File: res.File})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// PurgeOrphansHandler handles DELETE requests to clear the archive.
// @Summary Purge orphaned comments
// @Description Deletes archived comments. A file filter limits the purge to one document; restored_only limits it to rows already restored.
// @Tags Orphans
// @Produce json
// @Param file query string false "Limit to one document (store-relative path)"
// @Param restored_only query boolean false "Only delete rows already restored" default(false)
// @Success 200 {object} models.StatusResponse "Number of rows deleted"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Failure 503 {object} models.ErrorResponse "Orphan archive unavailable"
// @Router /orphans [delete]
func PurgeOrphansHandler(w http.ResponseWriter, r *http.Request) {
	if !requireArchive(w) {
		return
	}
	file := r.URL.Query().Get("file")
	restoredOnly := false
	if v := r.URL.Query().Get("restored_only"); v != "" {
		restoredOnly, _ = strconv.ParseBool(v)
	}

	purged, err := database.PurgeOrphanedComments(file, restoredOnly)
	if err != nil {
		logger.Error("PurgeOrphansHandler: Error purging orphaned comments: %v", err)
		http.Error(w, "Failed to purge orphaned comments", http.StatusInternalServerError)
		return
	}
	PublishEvent(EngineEvent{Type: "orphans_purged", File: file})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.StatusResponse{
		Status:  "ok",
		Message: strconv.FormatInt(purged, 10) + " orphaned comment(s) purged",
	})
}
