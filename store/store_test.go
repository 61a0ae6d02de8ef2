package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ws := t.TempDir()
	s, err := New(ws, ".hide-comments")
	require.NoError(t, err)
	return s
}

func sampleSet() *models.CommentSet {
	return &models.CommentSet{
		Records: []models.CommentRecord{
			{
				Kind:         models.KindBlock,
				Anchor:       "1111111111111111",
				Lines:        []models.PayloadLine{{Marker: "#", Text: " shared note"}},
				OriginalLine: 0,
			},
			{
				Kind:         models.KindInline,
				Anchor:       "2222222222222222",
				Inline:       "# my note",
				IsPrivate:    true,
				OriginalLine: 3,
			},
		},
	}
}

func TestSaveLoadPartitions(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("src/main.py", sampleSet()))

	sharedPath := s.SharedPath("src/main.py")
	privatePath := s.PrivatePath("src/main.py")
	require.FileExists(t, sharedPath)
	require.FileExists(t, privatePath)

	privateData, err := os.ReadFile(privatePath)
	require.NoError(t, err)
	require.NotContains(t, string(privateData), "isPrivate",
		"the private file location implies the flag")

	loaded, err := s.Load("src/main.py")
	require.NoError(t, err)
	require.Len(t, loaded.Records, 2)
	require.False(t, loaded.Records[0].IsPrivate)
	require.True(t, loaded.Records[1].IsPrivate, "flag restored from file location")
	require.False(t, loaded.LastModified.IsZero())
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("nope.go")
	require.ErrorIs(t, err, ErrNoPersistedSet)
}

func TestLoadMalformed(t *testing.T) {
	s := newTestStore(t)
	path := s.SharedPath("bad.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := s.Load("bad.go")
	require.ErrorIs(t, err, ErrMalformedSet)
}

func TestLoadSalvagesBrokenRecords(t *testing.T) {
	s := newTestStore(t)
	path := s.SharedPath("mixed.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := `{
  "file": "mixed.go",
  "lastModified": "2026-01-02T03:04:05Z",
  "records": [
    {"kind": "inline", "anchor": "aaaaaaaaaaaaaaaa", "payload": "// ok", "originalLine": 1},
    {"kind": "banner", "anchor": "bbbbbbbbbbbbbbbb", "payload": 42, "originalLine": 2}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := s.Load("mixed.go")
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	require.Equal(t, "// ok", set.Records[0].Inline)
	require.Equal(t, 2026, set.LastModified.Year())
}

func TestCacheIsolation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a.go", sampleSet()))

	first, err := s.Load("a.go")
	require.NoError(t, err)
	first.Records[0].Anchor = "mutated"

	second, err := s.Load("a.go")
	require.NoError(t, err)
	require.Equal(t, models.Fingerprint("1111111111111111"), second.Records[0].Anchor)
}

func TestSaveEmptyRemovesFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("gone.go", sampleSet()))
	require.NoError(t, s.Save("gone.go", &models.CommentSet{}))

	require.NoFileExists(t, s.SharedPath("gone.go"))
	require.NoFileExists(t, s.PrivatePath("gone.go"))
	_, err := s.Load("gone.go")
	require.ErrorIs(t, err, ErrNoPersistedSet)
}

func TestRelPath(t *testing.T) {
	s := newTestStore(t)

	rel, err := s.RelPath(filepath.Join(s.Workspace(), "pkg", "x.go"))
	require.NoError(t, err)
	require.Equal(t, "pkg/x.go", rel)

	rel, err = s.RelPath("pkg/x.go")
	require.NoError(t, err)
	require.Equal(t, "pkg/x.go", rel)

	_, err = s.RelPath("../outside.go")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "escapes"))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("b/two.go", sampleSet()))
	require.NoError(t, s.Save("a/one.py", sampleSet()))

	docs, err := s.List()
	require.NoError(t, err)
	require.Equal(t, []string{"a/one.py", "b/two.go"}, docs)

	empty, err := New(t.TempDir(), "never-created")
	require.NoError(t, err)
	docs, err = empty.List()
	require.NoError(t, err)
	require.Empty(t, docs)
}
