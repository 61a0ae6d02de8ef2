package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"

	"github.com/google/uuid"
)

// ArchiveOrphan inserts an orphaned comment into the archive. A missing ID is
// filled in with a fresh UUID. Returns the stored ID.
func ArchiveOrphan(orphan models.OrphanedComment) (string, error) {
	if orphan.ID == "" {
		orphan.ID = uuid.NewString()
	}
	logger.Info("Archiving orphaned %s comment for %s (reason: %s)", orphan.Kind, orphan.File, orphan.Reason)
	stmt, err := DB.Prepare(`
		INSERT INTO orphaned_comments (id, file_path, kind, anchor, payload, reason, dropped_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		logger.Error("Error preparing archive orphan statement: %v", err)
		return "", fmt.Errorf("preparing archive orphan statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(orphan.ID, orphan.File, string(orphan.Kind), string(orphan.Anchor), orphan.Payload, orphan.Reason)
	if err != nil {
		return "", fmt.Errorf("executing archive orphan statement for %s: %w", orphan.File, err)
	}
	return orphan.ID, nil
}

// ArchiveDroppedRecords archives every record in the slice under the given
// file path, serializing each record as its payload. Returns the IDs of the
// archived rows.
func ArchiveDroppedRecords(filePath string, records []models.CommentRecord, reason string) ([]string, error) {
	var ids []string
	for i := range records {
		payload, err := json.Marshal(&records[i])
		if err != nil {
			return ids, fmt.Errorf("serializing dropped record for %s: %w", filePath, err)
		}
		id, err := ArchiveOrphan(models.OrphanedComment{
			File:    filePath,
			Kind:    records[i].Kind,
			Anchor:  records[i].Anchor,
			Payload: string(payload),
			Reason:  reason,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scanOrphan reads one archive row. restored_at is nullable in the schema
// and surfaces as a nil pointer on the model.
func scanOrphan(row interface{ Scan(dest ...any) error }) (models.OrphanedComment, error) {
	var o models.OrphanedComment
	var restoredAt sql.NullTime
	if err := row.Scan(&o.ID, &o.File, &o.Kind, &o.Anchor, &o.Payload, &o.Reason, &o.DroppedAt, &restoredAt); err != nil {
		return o, err
	}
	if restoredAt.Valid {
		o.RestoredAt = &restoredAt.Time
	}
	return o, nil
}

// GetOrphanedCommentsByFile retrieves archived comments for a file, newest
// first. Restored rows are excluded unless includeRestored is set.
func GetOrphanedCommentsByFile(filePath string, includeRestored bool) ([]models.OrphanedComment, error) {
	logger.Info("Getting orphaned comments for file: %s", filePath)
	query := `
		SELECT id, file_path, kind, anchor, payload, reason, dropped_at, restored_at
		FROM orphaned_comments
		WHERE file_path = ?
	`
	if !includeRestored {
		query += " AND restored_at IS NULL"
	}
	query += " ORDER BY dropped_at DESC, id DESC"

	rows, err := DB.Query(query, filePath)
	if err != nil {
		return nil, fmt.Errorf("querying orphaned comments for %s: %w", filePath, err)
	}
	defer rows.Close()

	var orphans []models.OrphanedComment
	for rows.Next() {
		o, err := scanOrphan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning orphaned comment row for %s: %w", filePath, err)
		}
		orphans = append(orphans, o)
	}
	return orphans, rows.Err()
}

// GetAllOrphanedCommentsPaginated retrieves archived comments across all
// files along with the total row count.
func GetAllOrphanedCommentsPaginated(limit int, offset int) ([]models.OrphanedComment, int64, error) {
	var orphans []models.OrphanedComment
	var totalRecords int64

	countQuery := "SELECT COUNT(*) FROM orphaned_comments"
	err := DB.QueryRow(countQuery).Scan(&totalRecords)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orphaned comments: %w", err)
	}

	if totalRecords == 0 {
		return orphans, 0, nil
	}

	query := `SELECT id, file_path, kind, anchor, payload, reason, dropped_at, restored_at
	          FROM orphaned_comments
	          ORDER BY dropped_at DESC, id DESC
	          LIMIT ? OFFSET ?`

	rows, err := DB.Query(query, limit, offset)
	if err != nil {
		return nil, totalRecords, fmt.Errorf("querying orphaned comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrphan(rows)
		if err != nil {
			return nil, totalRecords, fmt.Errorf("scanning orphaned comment row: %w", err)
		}
		orphans = append(orphans, o)
	}
	return orphans, totalRecords, rows.Err()
}

// GetOrphanedCommentByID retrieves a single archived comment.
func GetOrphanedCommentByID(id string) (models.OrphanedComment, error) {
	logger.Info("Getting orphaned comment by id: %s", id)
	o, err := scanOrphan(DB.QueryRow(`
		SELECT id, file_path, kind, anchor, payload, reason, dropped_at, restored_at
		FROM orphaned_comments
		WHERE id = ?
	`, id))

	if err != nil {
		if err == sql.ErrNoRows {
			return o, fmt.Errorf("orphaned comment with ID %s not found", id)
		}
		return o, fmt.Errorf("querying orphaned comment %s: %w", id, err)
	}
	return o, nil
}

// MarkOrphanRestored stamps an archived comment as restored. Already-restored
// rows are left untouched and reported as an error so a restore is not applied
// twice.
func MarkOrphanRestored(id string) error {
	logger.Info("Marking orphaned comment %s as restored", id)
	stmt, err := DB.Prepare(`
		UPDATE orphaned_comments
		SET restored_at = CURRENT_TIMESTAMP
		WHERE id = ? AND restored_at IS NULL
	`)
	if err != nil {
		return fmt.Errorf("preparing restore orphan statement for %s: %w", id, err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("executing restore orphan statement for %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for restore of %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("orphaned comment %s not found or already restored", id)
	}
	return nil
}

// PurgeOrphanedComments deletes archived comments. An empty filePath purges
// the whole archive; restoredOnly limits the purge to rows already restored.
func PurgeOrphanedComments(filePath string, restoredOnly bool) (int64, error) {
	logger.Info("Purging orphaned comments (file: %q, restoredOnly: %v)", filePath, restoredOnly)
	query := "DELETE FROM orphaned_comments"
	var conds []string
	var args []interface{}
	if filePath != "" {
		conds = append(conds, "file_path = ?")
		args = append(args, filePath)
	}
	if restoredOnly {
		conds = append(conds, "restored_at IS NOT NULL")
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	result, err := DB.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("purging orphaned comments: %w", err)
	}
	return result.RowsAffected()
}
