package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
	"github.com/Serendipbrity/hide-comments-extension/store"
)

// DocumentSession is the per-document record the manager keeps: the mode
// the engine last left the document in, whether the private partition is
// rendered, and a suppression deadline so the watcher does not sync a
// write the engine itself made.
type DocumentSession struct {
	Mode           models.Mode `json:"mode"`
	IncludePrivate bool        `json:"includePrivate"`
	LastOp         time.Time   `json:"lastOp"`

	op            sync.Mutex
	suppressUntil time.Time
	// pendingInclude queues a private-partition flip until the next hide
	// or show rewrites the document. IncludePrivate keeps describing how
	// the text on disk is rendered in the meantime, which is what the
	// reconciler needs to know.
	pendingInclude *bool
}

type sessionState struct {
	Documents map[string]*DocumentSession `json:"documents"`
}

// Manager owns the document sessions and runs every workspace-file
// operation through them. One op mutex per document serializes explicit
// toggles against background syncs; manager state itself is guarded
// separately so status reads never wait on a running toggle.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*DocumentSession
	statePath string
	store     *store.Store
}

func NewManager(st *store.Store, statePath string) *Manager {
	m := &Manager{
		sessions:  make(map[string]*DocumentSession),
		statePath: statePath,
		store:     st,
	}
	m.loadState()
	return m
}

// Store exposes the backing record store.
func (m *Manager) Store() *store.Store { return m.store }

func normPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

// session returns the tracked session for path, creating one in commented
// mode when the document has never been seen. The private partition starts
// visible: private comments belong to the local user, so only an explicit
// toggle hides them. Caller holds m.mu.
func (m *Manager) sessionLocked(path string) *DocumentSession {
	s, ok := m.sessions[path]
	if !ok {
		s = &DocumentSession{Mode: models.ModeCommented, IncludePrivate: true}
		m.sessions[path] = s
	}
	return s
}

// acquire takes the per-document op lock. Every mutating operation runs
// between acquire and release.
func (m *Manager) acquire(path string) *DocumentSession {
	m.mu.Lock()
	s := m.sessionLocked(path)
	m.mu.Unlock()
	s.op.Lock()
	return s
}

func (m *Manager) release(s *DocumentSession) {
	s.op.Unlock()
}

// View is a point-in-time copy of a session's fields. IncludePrivate is
// how the document text is currently rendered; Desired is the rendering
// the next hide or show should produce, which differs while a partition
// flip is queued.
type View struct {
	Mode           models.Mode
	IncludePrivate bool
	Desired        bool
	LastOp         time.Time
}

func (m *Manager) view(path string) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessionLocked(path)
	v := View{Mode: s.Mode, IncludePrivate: s.IncludePrivate, Desired: s.IncludePrivate, LastOp: s.LastOp}
	if s.pendingInclude != nil {
		v.Desired = *s.pendingInclude
	}
	return v
}

// commit records the outcome of an operation and persists session state.
// A queued partition flip is cleared once an operation has rendered it.
func (m *Manager) commit(path string, mode models.Mode, includePrivate bool) {
	m.mu.Lock()
	s := m.sessionLocked(path)
	s.Mode = mode
	s.IncludePrivate = includePrivate
	if s.pendingInclude != nil && *s.pendingInclude == includePrivate {
		s.pendingInclude = nil
	}
	s.LastOp = time.Now()
	m.mu.Unlock()
	if err := m.SaveState(); err != nil {
		logger.Error("Failed to persist session state: %v", err)
	}
}

// SetIncludePrivate queues a flip of the private partition's rendering
// for a document. The flip is applied by the next hide or show; until
// then the session keeps reporting how the text is actually rendered.
func (m *Manager) SetIncludePrivate(path string, include bool) {
	path = normPath(path)
	m.mu.Lock()
	m.sessionLocked(path).pendingInclude = &include
	m.mu.Unlock()
}

// SuppressFor shields a document from watcher-triggered syncs until d has
// elapsed. Called around the engine's own writes.
func (m *Manager) SuppressFor(path string, d time.Duration) {
	path = normPath(path)
	m.mu.Lock()
	m.sessionLocked(path).suppressUntil = time.Now().Add(d)
	m.mu.Unlock()
}

// SyncSuppressed reports whether a watcher sync for path should be skipped.
func (m *Manager) SyncSuppressed(path string) bool {
	path = normPath(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[path]
	return ok && time.Now().Before(s.suppressUntil)
}

// Drop forgets a document's session, for files deleted from the workspace.
func (m *Manager) Drop(path string) {
	path = normPath(path)
	m.mu.Lock()
	delete(m.sessions, path)
	m.mu.Unlock()
	if err := m.SaveState(); err != nil {
		logger.Error("Failed to persist session state: %v", err)
	}
}

// Tracked lists the document paths with a live session.
func (m *Manager) Tracked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.sessions))
	for p := range m.sessions {
		paths = append(paths, p)
	}
	return paths
}

func (m *Manager) loadState() {
	if m.statePath == "" {
		return
	}
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed to read session state file %s: %v", m.statePath, err)
		}
		return
	}
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Error("Session state file %s is malformed, starting fresh: %v", m.statePath, err)
		return
	}
	for path, s := range state.Documents {
		if s == nil || !s.Mode.Valid() {
			continue
		}
		m.sessions[normPath(path)] = s
	}
	logger.Info("Restored %d document sessions from %s", len(m.sessions), m.statePath)
}

// SaveState writes the session map to the state file.
func (m *Manager) SaveState() error {
	if m.statePath == "" {
		return nil
	}
	m.mu.Lock()
	state := sessionState{Documents: make(map[string]*DocumentSession, len(m.sessions))}
	for path, s := range m.sessions {
		state.Documents[path] = &DocumentSession{
			Mode:           s.Mode,
			IncludePrivate: s.IncludePrivate,
			LastOp:         s.LastOp,
		}
	}
	m.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing session state: %w", err)
	}
	if dir := filepath.Dir(m.statePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating session state directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(m.statePath, data, 0644); err != nil {
		return fmt.Errorf("writing session state file %s: %w", m.statePath, err)
	}
	return nil
}
