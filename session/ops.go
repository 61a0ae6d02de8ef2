package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
	"github.com/Serendipbrity/hide-comments-extension/store"
)

// suppressWindow shields a document from watcher syncs after the engine
// writes it. Wide enough to outlast any configured debounce.
const suppressWindow = 2 * time.Second

// ErrNoAnnotationData is returned when a document is asked to show
// comments but no usable record set exists and the text holds none.
var ErrNoAnnotationData = errors.New("no annotation data yet - save once while comments are visible")

// OpResult reports what a document operation did.
type OpResult struct {
	Path     string      `json:"path"`
	Mode     models.Mode `json:"mode"`
	Changed  bool        `json:"changed"`
	Shared   int         `json:"shared"`
	Private  int         `json:"private"`
	Matched  int         `json:"matched,omitempty"`
	Added    int         `json:"added,omitempty"`
	Routed   int         `json:"routed,omitempty"`
	Cleared  int         `json:"cleared,omitempty"`
	Merged   int         `json:"merged,omitempty"`
	Orphaned int         `json:"orphaned,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// DocStatus is the read-only view returned by Status.
type DocStatus struct {
	Path           string      `json:"path"`
	RelPath        string      `json:"relPath"`
	Mode           models.Mode `json:"mode"`
	Shared         int         `json:"shared"`
	Private        int         `json:"private"`
	AlwaysVisible  int         `json:"alwaysVisible"`
	IncludePrivate bool        `json:"includePrivate"`
	SharedPath     string      `json:"sharedPath"`
	PrivatePath    string      `json:"privatePath"`
	Orphans        int         `json:"orphans"`
	LastModified   time.Time   `json:"lastModified,omitempty"`
}

func resolveFileType(path, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if ft := core.FileTypeForPath(path); ft != "" {
		return ft, nil
	}
	return "", fmt.Errorf("no comment syntax known for %s", filepath.Base(path))
}

func readDocument(path string) (string, os.FileMode, error) {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", perm, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), perm, nil
}

func (m *Manager) writeDocument(path, text string, perm os.FileMode) error {
	m.SuppressFor(path, suppressWindow)
	if err := os.WriteFile(path, []byte(text), perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// loadSet reads the persisted set for relPath. A missing or fully
// malformed set comes back nil so callers can rebuild by extraction.
func (m *Manager) loadSet(relPath string) (*models.CommentSet, []string, error) {
	set, err := m.store.Load(relPath)
	if err == nil {
		return set, nil, nil
	}
	if errors.Is(err, store.ErrNoPersistedSet) {
		return nil, nil, nil
	}
	if errors.Is(err, store.ErrMalformedSet) {
		logger.Error("Persisted set for %s is malformed, rebuilding from document text: %v", relPath, err)
		return nil, []string{fmt.Sprintf("persisted set was malformed and has been rebuilt: %v", err)}, nil
	}
	return nil, nil, err
}

// archiveDropped sends dropped records to the orphan archive. Archive
// failures degrade to warnings so a toggle is never blocked by the
// database.
func archiveDropped(relPath string, dropped []models.CommentRecord, reason string, warnings []string) (int, []string) {
	if len(dropped) == 0 {
		return 0, warnings
	}
	if database.DB == nil {
		return len(dropped), append(warnings, fmt.Sprintf("%d comment(s) dropped (%s); orphan archive unavailable", len(dropped), reason))
	}
	if _, err := database.ArchiveDroppedRecords(relPath, dropped, reason); err != nil {
		logger.Error("Failed to archive %d orphaned comment(s) for %s: %v", len(dropped), relPath, err)
		return len(dropped), append(warnings, fmt.Sprintf("%d comment(s) dropped (%s); archiving failed: %v", len(dropped), reason, err))
	}
	return len(dropped), warnings
}

// removeRecords filters one instance of each victim out of records.
func removeRecords(records, victims []models.CommentRecord) []models.CommentRecord {
	type victimKey struct {
		key  models.RecordKey
		text string
		line int
	}
	pending := make(map[victimKey]int, len(victims))
	for i := range victims {
		pending[victimKey{victims[i].Key(), victims[i].PayloadText(), victims[i].OriginalLine}]++
	}
	out := records[:0]
	for i := range records {
		k := victimKey{records[i].Key(), records[i].PayloadText(), records[i].OriginalLine}
		if pending[k] > 0 {
			pending[k]--
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// Hide takes a document from commented to clean: reconcile the visible
// comments into the persisted set, then strip them from the text. Already
// clean documents are left untouched.
func (m *Manager) Hide(path, fileType string) (*OpResult, error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)
	return m.hideLocked(path, fileType)
}

func (m *Manager) hideLocked(path, fileType string) (*OpResult, error) {
	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, perm, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	view := m.view(path)
	prev, warnings, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}

	res := &OpResult{Path: path, Mode: models.ModeClean, Warnings: warnings}
	if core.DetectMode(text, ft, prev) == models.ModeClean {
		if prev != nil {
			res.Shared, res.Private = len(prev.Shared()), len(prev.Private())
		}
		m.commit(path, models.ModeClean, view.IncludePrivate)
		return res, nil
	}

	next, rstats := core.Reconcile(text, ft, prev, models.ModeCommented, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})
	res.Matched, res.Added = rstats.Matched, rstats.Added
	res.Orphaned, res.Warnings = archiveDropped(rel, rstats.Dropped, models.OrphanReasonDeleted, res.Warnings)

	out, _ := core.Strip(text, ft, next.Records, view.Desired && view.IncludePrivate)
	if view.Desired && !view.IncludePrivate {
		// partition switched on while hiding: retained private comments
		// join the clean text now
		var istats core.InjectStats
		out, istats = core.Inject(out, next.Private(), true)
		if len(istats.Orphans) > 0 {
			orphaned, warns := archiveDropped(rel, istats.Orphans, models.OrphanReasonAnchorNotFound, res.Warnings)
			res.Orphaned += orphaned
			res.Warnings = warns
			next.Records = removeRecords(next.Records, istats.Orphans)
		}
	}

	if err := m.store.Save(rel, next); err != nil {
		return nil, fmt.Errorf("persisting comment set for %s: %w", rel, err)
	}
	res.Shared, res.Private = len(next.Shared()), len(next.Private())

	if out != text {
		if err := m.writeDocument(path, out, perm); err != nil {
			return nil, err
		}
		res.Changed = true
	}
	m.commit(path, models.ModeClean, view.Desired)
	logger.Info("Hid comments in %s (%d shared, %d private, %d orphaned)", rel, res.Shared, res.Private, res.Orphaned)
	return res, nil
}

// Show takes a document from clean to commented: fold clean-mode edits
// into the persisted payloads and inject everything back. A document with
// no usable set is recovered by extraction when its comments are still
// visible; otherwise there is nothing to restore.
func (m *Manager) Show(path, fileType string) (*OpResult, error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)
	return m.showLocked(path, fileType)
}

func (m *Manager) showLocked(path, fileType string) (*OpResult, error) {
	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, perm, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	view := m.view(path)
	prev, warnings, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}

	res := &OpResult{Path: path, Mode: models.ModeCommented, Warnings: warnings}
	mode := core.DetectMode(text, ft, prev)

	if prev == nil {
		if mode == models.ModeClean {
			return nil, fmt.Errorf("%s: %w", path, ErrNoAnnotationData)
		}
		next, _ := core.Reconcile(text, ft, nil, models.ModeCommented, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})
		if err := m.store.Save(rel, next); err != nil {
			return nil, fmt.Errorf("persisting comment set for %s: %w", rel, err)
		}
		res.Shared, res.Private = len(next.Shared()), len(next.Private())
		m.commit(path, models.ModeCommented, view.IncludePrivate)
		return res, nil
	}

	if mode == models.ModeCommented && view.Desired == view.IncludePrivate {
		res.Shared, res.Private = len(prev.Shared()), len(prev.Private())
		m.commit(path, models.ModeCommented, view.IncludePrivate)
		return res, nil
	}

	// An already-commented document still goes through the full pipeline
	// when a partition flip is queued, so the private comments can be
	// rendered in or out.
	next, rstats := core.Reconcile(text, ft, prev, mode, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})
	if mode == models.ModeCommented {
		res.Matched, res.Added = rstats.Matched, rstats.Added
		res.Orphaned, res.Warnings = archiveDropped(rel, rstats.Dropped, models.OrphanReasonDeleted, res.Warnings)
	} else {
		res.Added, res.Routed, res.Cleared = rstats.Added, rstats.CleanRouted, rstats.CleanCleared
	}

	stripped, _ := core.Strip(text, ft, next.Records, false)
	res.Merged = core.MergeCleanEdits(next)
	out, istats := core.Inject(stripped, next.Records, view.Desired)

	orphaned, warns := archiveDropped(rel, istats.Orphans, models.OrphanReasonAnchorNotFound, res.Warnings)
	res.Orphaned += orphaned
	res.Warnings = warns
	if len(istats.Orphans) > 0 {
		next.Records = removeRecords(next.Records, istats.Orphans)
	}

	if err := m.store.Save(rel, next); err != nil {
		return nil, fmt.Errorf("persisting comment set for %s: %w", rel, err)
	}
	res.Shared, res.Private = len(next.Shared()), len(next.Private())

	if out != text {
		if err := m.writeDocument(path, out, perm); err != nil {
			return nil, err
		}
		res.Changed = true
	}
	m.commit(path, models.ModeCommented, view.Desired)
	logger.Info("Restored comments in %s (%d injected, %d merged, %d orphaned)", rel, istats.Injected, res.Merged, res.Orphaned)
	return res, nil
}

// Toggle detects the document's current mode and switches to the other.
func (m *Manager) Toggle(path, fileType string) (*OpResult, error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)

	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, _, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	prev, _, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}
	if core.DetectMode(text, ft, prev) == models.ModeCommented {
		return m.hideLocked(path, fileType)
	}
	return m.showLocked(path, fileType)
}

// Sync folds the document's current text into the persisted set without
// rewriting the document. This is the debounced save-event path and is
// idempotent for an unchanged snapshot.
func (m *Manager) Sync(path, fileType string) (*OpResult, error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)

	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, _, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	view := m.view(path)
	prev, warnings, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}

	mode := core.DetectMode(text, ft, prev)
	next, rstats := core.Reconcile(text, ft, prev, mode, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})

	res := &OpResult{Path: path, Mode: mode, Warnings: warnings}
	res.Matched, res.Added, res.Routed, res.Cleared = rstats.Matched, rstats.Added, rstats.CleanRouted, rstats.CleanCleared
	res.Orphaned, res.Warnings = archiveDropped(rel, rstats.Dropped, models.OrphanReasonDeleted, res.Warnings)

	if len(next.Records) == 0 && prev == nil {
		m.commit(path, mode, view.IncludePrivate)
		return res, nil
	}
	if err := m.store.Save(rel, next); err != nil {
		return nil, fmt.Errorf("persisting comment set for %s: %w", rel, err)
	}
	res.Shared, res.Private = len(next.Shared()), len(next.Private())
	m.commit(path, mode, view.IncludePrivate)
	logger.Debug("Synced %s in %s mode (%d matched, %d added, %d routed)", rel, mode, res.Matched, res.Added, res.Routed)
	return res, nil
}

// MarkFlags carries the flag changes a Mark call applies. Nil fields are
// left as stored.
type MarkFlags struct {
	AlwaysVisible *bool `json:"alwaysVisible,omitempty"`
	IsPrivate     *bool `json:"isPrivate,omitempty"`
}

// recordVisible reports whether a record's comment text is rendered in
// the document for the given mode and private-visibility setting.
func recordVisible(r *models.CommentRecord, mode models.Mode, includePrivate bool) bool {
	if r.AlwaysVisible {
		return true
	}
	if r.IsPrivate {
		return includePrivate
	}
	return mode == models.ModeCommented
}

// Mark flags the comment at a 1-based document line. The comment is
// resolved against the current text first, then by anchor so hidden
// comments can be addressed via their code line. With no persisted set
// yet, a one-record set is created from the comment found at the line.
func (m *Manager) Mark(path, fileType string, line int, flags MarkFlags) (*OpResult, error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)

	if flags.AlwaysVisible == nil && flags.IsPrivate == nil {
		return nil, errors.New("nothing to mark: pass --always-visible or --private")
	}
	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, perm, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	view := m.view(path)
	prev, warnings, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}

	mode := core.DetectMode(text, ft, prev)
	next, _ := core.Reconcile(text, ft, prev, mode, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})

	idx := core.ResolveAt(text, ft, next.Records, line-1)
	if idx < 0 {
		return nil, fmt.Errorf("no comment found at %s:%d", path, line)
	}

	rec := &next.Records[idx]
	wasVisible := recordVisible(rec, mode, view.IncludePrivate)
	if flags.AlwaysVisible != nil {
		rec.AlwaysVisible = *flags.AlwaysVisible
	}
	if flags.IsPrivate != nil {
		rec.IsPrivate = *flags.IsPrivate
	}
	nowVisible := recordVisible(rec, mode, view.IncludePrivate)

	res := &OpResult{Path: path, Mode: mode, Warnings: warnings}
	out := text
	switch {
	case wasVisible && !nowVisible:
		out, _ = core.Strip(text, ft, []models.CommentRecord{*rec}, false)
	case !wasVisible && nowVisible:
		// neutralize the flags so the injector does not skip the record
		ghost := *rec
		ghost.AlwaysVisible, ghost.IsPrivate = false, false
		var istats core.InjectStats
		out, istats = core.Inject(text, []models.CommentRecord{ghost}, true)
		if len(istats.Orphans) > 0 {
			return nil, fmt.Errorf("comment at %s:%d has no anchor in the current text", path, line)
		}
	}

	if err := m.store.Save(rel, next); err != nil {
		return nil, fmt.Errorf("persisting comment set for %s: %w", rel, err)
	}
	res.Shared, res.Private = len(next.Shared()), len(next.Private())

	if out != text {
		if err := m.writeDocument(path, out, perm); err != nil {
			return nil, err
		}
		res.Changed = true
	}
	m.commit(path, mode, view.IncludePrivate)
	logger.Info("Marked comment at %s:%d (alwaysVisible=%v, isPrivate=%v)", rel, line, rec.AlwaysVisible, rec.IsPrivate)
	return res, nil
}

// Status reports a document's mode, record counts and partition paths
// without modifying anything.
func (m *Manager) Status(path, fileType string) (*DocStatus, error) {
	path = normPath(path)

	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return nil, err
	}
	text, _, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return nil, err
	}
	view := m.view(path)
	set, _, err := m.loadSet(rel)
	if err != nil {
		return nil, err
	}

	status := &DocStatus{
		Path:           path,
		RelPath:        rel,
		Mode:           core.DetectMode(text, ft, set),
		IncludePrivate: view.IncludePrivate,
		SharedPath:     m.store.SharedPath(rel),
		PrivatePath:    m.store.PrivatePath(rel),
	}
	if set != nil {
		status.LastModified = set.LastModified
		for i := range set.Records {
			if set.Records[i].IsPrivate {
				status.Private++
			} else {
				status.Shared++
			}
			if set.Records[i].AlwaysVisible {
				status.AlwaysVisible++
			}
		}
	}
	if database.DB != nil {
		orphans, err := database.GetOrphanedCommentsByFile(rel, false)
		if err != nil {
			logger.Error("Failed to count orphans for %s: %v", rel, err)
		} else {
			status.Orphans = len(orphans)
		}
	}
	return status, nil
}

// PreviewToggle computes the text a toggle would produce without writing
// the document, the store or the archive.
func (m *Manager) PreviewToggle(path, fileType string) (before, after string, target models.Mode, err error) {
	path = normPath(path)
	s := m.acquire(path)
	defer m.release(s)

	ft, err := resolveFileType(path, fileType)
	if err != nil {
		return "", "", "", err
	}
	text, _, err := readDocument(path)
	if err != nil {
		return "", "", "", err
	}
	rel, err := m.store.RelPath(path)
	if err != nil {
		return "", "", "", err
	}
	view := m.view(path)
	prev, _, err := m.loadSet(rel)
	if err != nil {
		return "", "", "", err
	}

	if core.DetectMode(text, ft, prev) == models.ModeCommented {
		next, _ := core.Reconcile(text, ft, prev, models.ModeCommented, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})
		stripped, _ := core.Strip(text, ft, next.Records, view.Desired && view.IncludePrivate)
		if view.Desired && !view.IncludePrivate {
			stripped, _ = core.Inject(stripped, next.Private(), true)
		}
		return text, stripped, models.ModeClean, nil
	}

	if prev == nil {
		return "", "", "", fmt.Errorf("%s: %w", path, ErrNoAnnotationData)
	}
	next, _ := core.Reconcile(text, ft, prev, models.ModeClean, core.ReconcileOptions{IncludePrivate: view.IncludePrivate})
	stripped, _ := core.Strip(text, ft, next.Records, false)
	core.MergeCleanEdits(next)
	out, _ := core.Inject(stripped, next.Records, view.Desired)
	return text, out, models.ModeCommented, nil
}
