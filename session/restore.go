package session

import (
	"encoding/json"
	"fmt"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// RestoreResult reports where an archived comment went.
type RestoreResult struct {
	ID      string `json:"id"`
	File    string `json:"file"`
	Path    string `json:"path,omitempty"`
	Block   string `json:"block"`
	Written bool   `json:"written"`
}

// restoreBlock renders an archived record as a standalone comment block: a
// provenance header line followed by the archived payload lines verbatim.
// An anchorless comment cannot go back where it was, so the block is meant
// for the top of the document where the author can move it by hand.
func restoreBlock(orphan *models.OrphanedComment, rec *models.CommentRecord, fileType string) string {
	marker := core.Markers(fileType)[0]
	header := fmt.Sprintf("%s restored comment (archived %s, %s)",
		marker, orphan.DroppedAt.Format("2006-01-02"), orphan.Reason)

	lines := []string{header}
	switch rec.Kind {
	case models.KindInline:
		// inline payloads already start at their marker
		lines = append(lines, rec.Inline)
	default:
		for _, l := range rec.Lines {
			lines = append(lines, l.Raw())
		}
	}
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

// RestoreOrphan re-emits an archived comment. With write set the block is
// prepended to the comment's original document and the archive row is
// stamped restored; otherwise the block is only rendered so the caller can
// print it, and the archive row is left pending.
func (m *Manager) RestoreOrphan(id string, write bool) (*RestoreResult, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("orphan archive is not available")
	}
	orphan, err := database.GetOrphanedCommentByID(id)
	if err != nil {
		return nil, err
	}
	if orphan.Restored() {
		return nil, fmt.Errorf("orphaned comment %s was already restored at %s", id, orphan.RestoredAt.Format("2006-01-02 15:04:05"))
	}

	var rec models.CommentRecord
	if err := json.Unmarshal([]byte(orphan.Payload), &rec); err != nil {
		return nil, fmt.Errorf("archived payload for %s is unreadable: %w", id, err)
	}

	ft := core.FileTypeForPath(orphan.File)
	res := &RestoreResult{
		ID:    orphan.ID,
		File:  orphan.File,
		Block: restoreBlock(&orphan, &rec, ft),
	}
	if !write {
		return res, nil
	}

	path := m.store.AbsPath(orphan.File)
	s := m.acquire(path)
	defer m.release(s)

	text, perm, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if err := m.writeDocument(path, res.Block+text, perm); err != nil {
		return nil, err
	}
	if err := database.MarkOrphanRestored(id); err != nil {
		return nil, err
	}
	res.Path = path
	res.Written = true
	logger.Info("Restored orphaned comment %s to the top of %s", id, orphan.File)
	return res, nil
}
