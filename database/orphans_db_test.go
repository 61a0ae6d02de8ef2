package database

import (
	"path/filepath"
	"testing"

	"github.com/Serendipbrity/hide-comments-extension/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "orphans.db")
	require.NoError(t, InitDB(dbPath))
	t.Cleanup(func() {
		require.NoError(t, CloseDB())
	})
}

func TestArchiveAndGetOrphan(t *testing.T) {
	setupTestDB(t)

	id, err := ArchiveOrphan(models.OrphanedComment{
		File:    "src/app.py",
		Kind:    models.KindBlock,
		Anchor:  models.Fingerprint("00000000deadbeef"),
		Payload: `{"kind":"block","anchor":"00000000deadbeef","originalLine":3,"payload":["# gone"]}`,
		Reason:  models.OrphanReasonAnchorNotFound,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := GetOrphanedCommentByID(id)
	require.NoError(t, err)
	assert.Equal(t, "src/app.py", got.File)
	assert.Equal(t, models.KindBlock, got.Kind)
	assert.Equal(t, models.OrphanReasonAnchorNotFound, got.Reason)
	assert.False(t, got.Restored())
	assert.False(t, got.DroppedAt.IsZero())

	_, err = GetOrphanedCommentByID("no-such-id")
	assert.Error(t, err)
}

func TestArchiveDroppedRecords(t *testing.T) {
	setupTestDB(t)

	records := []models.CommentRecord{
		{Kind: models.KindBlock, Anchor: "1111111111111111", Lines: []models.PayloadLine{{Indent: "", Text: "# one"}}, OriginalLine: 1},
		{Kind: models.KindInline, Anchor: "2222222222222222", Inline: "# two", OriginalLine: 4},
	}
	ids, err := ArchiveDroppedRecords("lib/util.rb", records, models.OrphanReasonDeleted)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	orphans, err := GetOrphanedCommentsByFile("lib/util.rb", false)
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	for _, o := range orphans {
		assert.Equal(t, "lib/util.rb", o.File)
		assert.Equal(t, models.OrphanReasonDeleted, o.Reason)
		assert.Contains(t, o.Payload, string(o.Anchor))
	}

	other, err := GetOrphanedCommentsByFile("lib/other.rb", false)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMarkOrphanRestored(t *testing.T) {
	setupTestDB(t)

	id, err := ArchiveOrphan(models.OrphanedComment{
		File:    "main.go",
		Kind:    models.KindInline,
		Anchor:  models.Fingerprint("aaaaaaaaaaaaaaaa"),
		Payload: `{"kind":"inline","anchor":"aaaaaaaaaaaaaaaa","originalLine":7,"payload":"// hmm"}`,
		Reason:  models.OrphanReasonAnchorNotFound,
	})
	require.NoError(t, err)

	require.NoError(t, MarkOrphanRestored(id))

	got, err := GetOrphanedCommentByID(id)
	require.NoError(t, err)
	assert.True(t, got.Restored())

	// A second restore must not silently succeed.
	assert.Error(t, MarkOrphanRestored(id))
	assert.Error(t, MarkOrphanRestored("missing"))

	// Restored rows drop out of the default file listing.
	visible, err := GetOrphanedCommentsByFile("main.go", false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := GetOrphanedCommentsByFile("main.go", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPurgeOrphanedComments(t *testing.T) {
	setupTestDB(t)

	mk := func(file string) string {
		id, err := ArchiveOrphan(models.OrphanedComment{
			File:    file,
			Kind:    models.KindBlock,
			Anchor:  models.Fingerprint("bbbbbbbbbbbbbbbb"),
			Payload: `{"kind":"block","anchor":"bbbbbbbbbbbbbbbb","originalLine":1,"payload":["# x"]}`,
			Reason:  models.OrphanReasonDeleted,
		})
		require.NoError(t, err)
		return id
	}
	a := mk("a.py")
	mk("a.py")
	mk("b.py")
	require.NoError(t, MarkOrphanRestored(a))

	// Restored-only purge leaves unrestored rows alone.
	n, err := PurgeOrphanedComments("", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = PurgeOrphanedComments("a.py", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	orphans, total, err := GetAllOrphanedCommentsPaginated(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orphans, 1)
	assert.Equal(t, "b.py", orphans[0].File)

	n, err = PurgeOrphanedComments("", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
