package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherEligibility(t *testing.T) {
	mgr, ws := newTestManager(t)
	w, err := NewWatcher(mgr, ws, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.eligible(filepath.Join(ws, "app.py")))
	assert.False(t, w.eligible(filepath.Join(ws, "app.py~")), "editor backups are skipped")
	assert.False(t, w.eligible(filepath.Join(ws, ".app.py.swp")))
	assert.False(t, w.eligible(mgr.Store().SharedPath("app.py")), "the record store is never synced")
	assert.True(t, w.ignored(filepath.Join(ws, "node_modules")))
}

func TestWatcherSyncsAfterQuiet(t *testing.T) {
	mgr, ws := newTestManager(t)
	path := writeDoc(t, ws, "app.py", sampleApp)

	type outcome struct {
		path string
		err  error
	}
	synced := make(chan outcome, 4)

	w, err := NewWatcher(mgr, ws, 50*time.Millisecond, func(p string, _ *OpResult, err error) {
		synced <- outcome{path: p, err: err}
	})
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte(sampleApp+"# more\ny = 2\n"), 0o644))

	select {
	case out := <-synced:
		require.NoError(t, out.err)
		assert.Equal(t, path, out.path)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a background sync after the debounce window")
	}

	set, err := mgr.Store().Load("app.py")
	require.NoError(t, err)
	assert.Len(t, set.Records, 3)
}

func TestWatcherSkipsSuppressedSync(t *testing.T) {
	mgr, ws := newTestManager(t)
	path := writeDoc(t, ws, "app.py", sampleApp)

	synced := make(chan string, 4)
	w, err := NewWatcher(mgr, ws, 20*time.Millisecond, func(p string, _ *OpResult, _ error) {
		synced <- p
	})
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// An engine-initiated rewrite suppresses the follow-up watcher sync.
	_, err = mgr.Hide(path, "")
	require.NoError(t, err)

	select {
	case p := <-synced:
		t.Fatalf("unexpected sync for %s during the suppression window", p)
	case <-time.After(500 * time.Millisecond):
	}
}
