package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

func commentedSet(t *testing.T, text, fileType string) *models.CommentSet {
	t.Helper()
	set, _ := Reconcile(text, fileType, nil, models.ModeCommented, ReconcileOptions{IncludePrivate: true})
	return set
}

func TestReconcileCommentedCarriesFlags(t *testing.T) {
	text := "# note\nx = 1\n"
	prev := commentedSet(t, text, "py")
	prev.Records[0].AlwaysVisible = true
	prev.Records[0].IsPrivate = true

	// same anchor, edited comment text
	edited := "# reworded note\nx = 1\n"
	next, stats := Reconcile(edited, "py", prev, models.ModeCommented, ReconcileOptions{IncludePrivate: true})
	require.Equal(t, 1, stats.Matched)
	require.Empty(t, stats.Dropped)
	require.True(t, next.Records[0].AlwaysVisible)
	require.True(t, next.Records[0].IsPrivate)
	require.Equal(t, "# reworded note", next.Records[0].PayloadText())
}

func TestReconcileCommentedPayloadFallback(t *testing.T) {
	text := "# note\nx = 1\n"
	prev := commentedSet(t, text, "py")
	prev.Records[0].AlwaysVisible = true

	// anchor line edited: kind+anchor match fails, exact payload rescues
	edited := "# note\nx = 2\n"
	next, stats := Reconcile(edited, "py", prev, models.ModeCommented, ReconcileOptions{IncludePrivate: true})
	require.Equal(t, 1, stats.Matched)
	require.True(t, next.Records[0].AlwaysVisible, "flags must survive an anchor edit")
	require.Equal(t, FingerprintLine("x = 2"), next.Records[0].Anchor, "record re-anchors to the edited line")
}

func TestReconcileCommentedDropsDeleted(t *testing.T) {
	prev := commentedSet(t, "# a\nx = 1\n# b\ny = 2\n", "py")
	require.Len(t, prev.Records, 2)

	next, stats := Reconcile("x = 1\ny = 2\n", "py", prev, models.ModeCommented, ReconcileOptions{IncludePrivate: true})
	require.Empty(t, next.Records)
	require.Len(t, stats.Dropped, 2)
}

func TestReconcileCommentedPrivatePassthrough(t *testing.T) {
	text := "# shared\nx = 1\n# mine\ny = 2\n"
	prev := commentedSet(t, text, "py")
	prev.Records[1].IsPrivate = true

	// private records were not visible in the text being reconciled
	visible := "# shared edited\nx = 1\ny = 2\n"
	next, stats := Reconcile(visible, "py", prev, models.ModeCommented, ReconcileOptions{IncludePrivate: false})
	require.Empty(t, stats.Dropped, "invisible private records are not deletions")
	require.Len(t, next.Records, 2)
	require.Len(t, next.Private(), 1)
	require.Equal(t, "# mine", next.Private()[0].PayloadText())
}

func TestReconcileCommentedPrivateStillVisible(t *testing.T) {
	text := "x = 1 # mine\n"
	prev := commentedSet(t, text, "py")
	prev.Records[0].IsPrivate = true

	// partition switched off while the comment is still on screen
	next, stats := Reconcile(text, "py", prev, models.ModeCommented, ReconcileOptions{IncludePrivate: false})
	require.Equal(t, 1, stats.Matched)
	require.Zero(t, stats.Added)
	require.Empty(t, stats.Dropped)
	require.Len(t, next.Records, 1)
	require.True(t, next.Records[0].IsPrivate)
}

func TestReconcileCleanRoutesTypedComment(t *testing.T) {
	prev := commentedSet(t, "total += n // running total\n", "go")

	clean := "total += n // now clamped\n"
	next, stats := Reconcile(clean, "go", prev, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	require.Equal(t, 1, stats.CleanRouted)
	rec := next.Records[0]
	require.Equal(t, "// running total", rec.Inline, "clean mode never touches the payload")
	require.Equal(t, "// now clamped", rec.CleanInline)
}

func TestReconcileCleanCreatesRecordForNewComment(t *testing.T) {
	prev := commentedSet(t, "x = 1\n", "py")
	require.Empty(t, prev.Records)

	clean := "# brand new\nx = 1\n"
	next, stats := Reconcile(clean, "py", prev, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	require.Equal(t, 1, stats.Added)
	require.Len(t, next.Records, 1)
	rec := next.Records[0]
	require.Empty(t, rec.Lines)
	require.Len(t, rec.CleanLines, 1)
	require.Equal(t, "# brand new", rec.CleanLines[0].Raw())
}

func TestReconcileCleanClearsWhenCommentGone(t *testing.T) {
	prev := commentedSet(t, "x = 1 // note\n", "go")
	prev.Records[0].CleanInline = "// stale edit"

	next, stats := Reconcile("x = 1\n", "go", prev, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	require.Equal(t, 1, stats.CleanCleared)
	require.Equal(t, "// note", next.Records[0].Inline)
	require.Empty(t, next.Records[0].CleanInline)
}

func TestReconcileCleanPrunesAbandonedNewRecord(t *testing.T) {
	prev := commentedSet(t, "x = 1\n", "py")
	step1, _ := Reconcile("# typed\nx = 1\n", "py", prev, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	require.Len(t, step1.Records, 1)

	// user deleted the typed comment again before any toggle
	step2, _ := Reconcile("x = 1\n", "py", step1, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	require.Empty(t, step2.Records)
}

func TestReconcileCleanLeavesPrivateAlone(t *testing.T) {
	prev := commentedSet(t, "x = 1 // mine\n", "go")
	prev.Records[0].IsPrivate = true

	next, stats := Reconcile("x = 1\n", "go", prev, models.ModeClean, ReconcileOptions{IncludePrivate: false})
	require.Zero(t, stats.CleanRouted)
	require.Zero(t, stats.CleanCleared)
	require.Len(t, next.Records, 1)
	require.Equal(t, "// mine", next.Records[0].Inline)
}

func TestMergeCleanEdits(t *testing.T) {
	set := &models.CommentSet{Records: []models.CommentRecord{
		{
			Kind:       models.KindBlock,
			Anchor:     "aa",
			Lines:      []models.PayloadLine{{Marker: "#", Text: " old"}},
			CleanLines: []models.PayloadLine{{Marker: "#", Text: " new"}},
		},
		{
			Kind:        models.KindInline,
			Anchor:      "bb",
			Inline:      "// old",
			CleanInline: "// new",
		},
		{Kind: models.KindInline, Anchor: "cc", Inline: "// untouched"},
	}}
	require.Equal(t, 2, MergeCleanEdits(set))
	require.Equal(t, "# new\n# old", set.Records[0].PayloadText())
	require.Nil(t, set.Records[0].CleanLines)
	require.Equal(t, "// new // old", set.Records[1].Inline)
	require.Equal(t, "// untouched", set.Records[2].Inline)
}

func TestDetectMode(t *testing.T) {
	text := "def f():\n    # explain\n    return 1\n"
	set := commentedSet(t, text, "py")

	require.Equal(t, models.ModeCommented, DetectMode(text, "py", set))

	stripped, _ := Strip(text, "py", set.Records, false)
	require.Equal(t, models.ModeClean, DetectMode(stripped, "py", set))
}

func TestDetectModeWithoutSet(t *testing.T) {
	require.Equal(t, models.ModeCommented, DetectMode("x = 1 # hm\n", "py", nil))
	require.Equal(t, models.ModeClean, DetectMode("x = 1\n", "py", nil))
}

func TestDetectModeIgnoresAlwaysVisible(t *testing.T) {
	text := "# keep\nx = 1\n# hide\ny = 2\n"
	set := commentedSet(t, text, "py")
	set.Records[0].AlwaysVisible = true

	stripped, _ := Strip(text, "py", set.Records, false)
	require.Equal(t, models.ModeClean, DetectMode(stripped, "py", set),
		"a kept alwaysVisible comment must not read as commented mode")
}

func TestRoundTripAfterCleanEdit(t *testing.T) {
	// full toggle cycle: hide, type while clean, show
	original := "total += n // running total\n"
	set := commentedSet(t, original, "go")

	hidden, _ := Strip(original, "go", set.Records, false)
	typed := "total += n // now clamped\n"

	set, _ = Reconcile(typed, "go", set, models.ModeClean, ReconcileOptions{IncludePrivate: true})
	cleanText, _ := Strip(typed, "go", set.Records, false)
	MergeCleanEdits(set)
	shown, stats := Inject(cleanText, set.Records, true)

	require.Empty(t, stats.Orphans)
	require.Equal(t, "total += n // now clamped // running total\n", shown)
	_ = hidden
}

func TestResolveAt(t *testing.T) {
	text := "# above\nx = 1  # beside\ny = 2\n"
	set := commentedSet(t, text, "py")
	require.Len(t, set.Records, 2)

	require.Equal(t, 0, ResolveAt(text, "py", set.Records, 0), "payload line hits the block")
	require.Equal(t, 1, ResolveAt(text, "py", set.Records, 1), "code line hits its inline comment")
	require.Equal(t, -1, ResolveAt(text, "py", set.Records, 2))
	require.Equal(t, -1, ResolveAt(text, "py", set.Records, 99))

	// clean text: hidden comments resolve through their anchor line
	stripped, _ := Strip(text, "py", set.Records, false)
	require.Equal(t, 0, ResolveAt(stripped, "py", set.Records, 0))
}
