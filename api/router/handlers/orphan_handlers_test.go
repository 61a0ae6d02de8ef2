package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/models"
	"github.com/Serendipbrity/hide-comments-extension/session"
	"github.com/Serendipbrity/hide-comments-extension/store"
)

// orphanPage mirrors models.PaginatedResponse with a typed records slice.
type orphanPage struct {
	Page         int                      `json:"page"`
	Limit        int                      `json:"limit"`
	TotalRecords int64                    `json:"total_records"`
	TotalPages   int                      `json:"total_pages"`
	Records      []models.OrphanedComment `json:"records"`
}

func setupOrphanAPI(t *testing.T) (http.Handler, string) {
	t.Helper()
	ws := t.TempDir()
	st, err := store.New(ws, ".hide-comments")
	require.NoError(t, err)
	SetManager(session.NewManager(st, ""))
	t.Cleanup(func() { SetManager(nil) })

	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "orphans.db")))
	t.Cleanup(func() { require.NoError(t, database.CloseDB()) })

	r := chi.NewRouter()
	RegisterOrphanRoutes(r)
	return r, ws
}

func archiveSampleOrphans(t *testing.T, file string) []string {
	t.Helper()
	records := core.Extract(sampleDoc, "py")
	require.Len(t, records, 2)
	ids, err := database.ArchiveDroppedRecords(file, records, models.OrphanReasonAnchorNotFound)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	return ids
}

func TestOrphansRequireArchive(t *testing.T) {
	r := chi.NewRouter()
	RegisterOrphanRoutes(r)

	rr := doJSON(t, r, http.MethodGet, "/orphans", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Orphan archive is not available")
}

func TestOrphanListEmpty(t *testing.T) {
	h, _ := setupOrphanAPI(t)

	rr := doJSON(t, h, http.MethodGet, "/orphans", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"records":[]`, "an empty archive must serialize as an empty array, not null")

	var page orphanPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 25, page.Limit)
	assert.Zero(t, page.TotalRecords)
}

func TestOrphanListAndGetByID(t *testing.T) {
	h, _ := setupOrphanAPI(t)
	ids := archiveSampleOrphans(t, "app.py")

	rr := doJSON(t, h, http.MethodGet, "/orphans?file=app.py", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page orphanPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalRecords)
	require.Len(t, page.Records, 2)
	for _, o := range page.Records {
		assert.Equal(t, "app.py", o.File)
		assert.Equal(t, models.OrphanReasonAnchorNotFound, o.Reason)
		assert.NotEmpty(t, o.Payload)
	}

	rr = doJSON(t, h, http.MethodGet, "/orphans/"+ids[0], nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var one models.OrphanedComment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &one))
	assert.Equal(t, ids[0], one.ID)
	assert.Equal(t, "app.py", one.File)

	rr = doJSON(t, h, http.MethodGet, "/orphans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Orphaned comment not found")
}

func TestRestoreOrphanEndpoint(t *testing.T) {
	h, ws := setupOrphanAPI(t)
	writeWorkspaceFile(t, ws, "app.py", "def main():\n    return 1\n")
	ids := archiveSampleOrphans(t, "app.py")

	// Dry run renders the block without touching the document.
	rr := doJSON(t, h, http.MethodPost, "/orphans/"+ids[0]+"/restore", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res session.RestoreResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.Written)
	assert.Contains(t, res.Block, "restored comment (archived")
	assert.Contains(t, res.Block, "# top note")

	data, err := os.ReadFile(filepath.Join(ws, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "def main():\n    return 1\n", string(data))

	rr = doJSON(t, h, http.MethodPost, "/orphans/"+ids[0]+"/restore?write=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Written)

	data, err = os.ReadFile(filepath.Join(ws, "app.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# restored comment (archived")
	assert.Contains(t, string(data), "# top note\n")

	rr = doJSON(t, h, http.MethodPost, "/orphans/"+ids[0]+"/restore?write=true", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already restored")
}

func TestOrphanIncludeRestoredFilter(t *testing.T) {
	h, ws := setupOrphanAPI(t)
	writeWorkspaceFile(t, ws, "app.py", "def main():\n    return 1\n")
	ids := archiveSampleOrphans(t, "app.py")

	rr := doJSON(t, h, http.MethodPost, "/orphans/"+ids[1]+"/restore?write=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page orphanPage
	rr = doJSON(t, h, http.MethodGet, "/orphans?file=app.py", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalRecords, "restored rows drop out of the default listing")

	rr = doJSON(t, h, http.MethodGet, "/orphans?file=app.py&include_restored=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalRecords)

	rr = doJSON(t, h, http.MethodDelete, "/orphans?restored_only=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1 orphaned comment(s) purged")
}

func TestPurgeOrphansEndpoint(t *testing.T) {
	h, _ := setupOrphanAPI(t)
	archiveSampleOrphans(t, "app.py")

	rr := doJSON(t, h, http.MethodDelete, "/orphans?file=other.py", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "0 orphaned comment(s) purged")

	rr = doJSON(t, h, http.MethodDelete, "/orphans", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "2 orphaned comment(s) purged")

	var page orphanPage
	rr = doJSON(t, h, http.MethodGet, "/orphans", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Zero(t, page.TotalRecords)
}
