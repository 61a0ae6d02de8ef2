package handlers

import (
	"net/http"

	"github.com/Serendipbrity/hide-comments-extension/session"
)

// manager is the session manager every file-scoped handler works through.
// Set once by the router before any request is served.
var manager *session.Manager

// SetManager installs the session manager used by the file and orphan
// handlers.
func SetManager(m *session.Manager) {
	manager = m
}

// requireManager guards handlers that need workspace state. Engine
// endpoints stay usable without one.
func requireManager(w http.ResponseWriter) bool {
	if manager == nil {
		http.Error(w, "Workspace session manager is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}
