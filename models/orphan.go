package models

import "time"

// Orphan drop reasons recorded in the archive.
const (
	OrphanReasonAnchorNotFound = "anchor_not_found"
	OrphanReasonDeleted        = "deleted_while_commented"
)

// OrphanedComment is an archived comment record whose anchor line could no
// longer be found in its document. Payload holds the full record JSON so a
// restore can rebuild it verbatim.
type OrphanedComment struct {
	ID         string      `json:"id" readOnly:"true"`
	File       string      `json:"file" example:"src/app.py"`
	Kind       CommentKind `json:"kind" example:"block"`
	Anchor     Fingerprint `json:"anchor"`
	Payload    string      `json:"payload"` // Full CommentRecord JSON as archived.
	Reason     string      `json:"reason" example:"anchor_not_found"`
	DroppedAt  time.Time   `json:"dropped_at" readOnly:"true"`
	RestoredAt *time.Time  `json:"restored_at,omitempty" readOnly:"true" swaggertype:"string" format:"date-time"`
}

// Restored reports whether the orphan has already been restored to a set.
func (o *OrphanedComment) Restored() bool {
	return o.RestoredAt != nil
}
