package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommentRecordWireShape(t *testing.T) {
	block := CommentRecord{
		Kind:   KindBlock,
		Anchor: Fingerprint("cbf29ce484222325"),
		Lines: []PayloadLine{
			{Indent: "    ", Marker: "#", Text: " explain", OriginalLine: 1},
		},
		OriginalLine: 1,
	}
	data, err := json.Marshal(block)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.JSONEq(t, `[{"indent":"    ","marker":"#","text":" explain","originalLine":1}]`, string(raw["payload"]))
	_, hasClean := raw["cleanModePayload"]
	require.False(t, hasClean, "absent clean payload must be omitted")
	_, hasPrivate := raw["isPrivate"]
	require.False(t, hasPrivate, "false flags must be omitted")

	inline := CommentRecord{
		Kind:         KindInline,
		Anchor:       Fingerprint("0123456789abcdef"),
		Inline:       "// total",
		CleanInline:  "// fixed",
		IsPrivate:    true,
		OriginalLine: 4,
	}
	data, err = json.Marshal(inline)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	require.JSONEq(t, `"// total"`, string(raw["payload"]))
	require.JSONEq(t, `"// fixed"`, string(raw["cleanModePayload"]))
	require.JSONEq(t, `true`, string(raw["isPrivate"]))
}

func TestCommentRecordRoundTrip(t *testing.T) {
	rec := CommentRecord{
		Kind:        KindBlock,
		Anchor:      Fingerprint("deadbeefdeadbeef"),
		ContextPrev: Fingerprint("1111111111111111"),
		Lines: []PayloadLine{
			{Indent: "", Marker: "//", Text: " one", OriginalLine: 2},
			{Indent: "  ", Marker: "", Text: "", OriginalLine: 3},
			{Indent: "", Marker: "//", Text: " two", OriginalLine: 4},
		},
		CleanLines:         []PayloadLine{{Indent: "", Marker: "//", Text: " newest", OriginalLine: 2}},
		LeadingBlankCount:  1,
		TrailingBlankCount: 2,
		OriginalLine:       2,
		Trailing:           true,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back CommentRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, rec, back)
	require.Equal(t, "// one\n  \n// two", back.PayloadText())
	require.True(t, back.Lines[1].Blank())
}

func TestCommentRecordRejectsUnknownKind(t *testing.T) {
	var rec CommentRecord
	err := json.Unmarshal([]byte(`{"kind":"banner","anchor":"00","payload":"x","originalLine":0}`), &rec)
	require.Error(t, err)
}

func TestCommentSetPartitions(t *testing.T) {
	set := CommentSet{
		File: "main.py",
		Records: []CommentRecord{
			{Kind: KindBlock, Anchor: "aa", OriginalLine: 0},
			{Kind: KindInline, Anchor: "bb", IsPrivate: true, OriginalLine: 3},
			{Kind: KindBlock, Anchor: "cc", OriginalLine: 7},
		},
	}
	require.Len(t, set.Shared(), 2)
	require.Len(t, set.Private(), 1)
	require.Equal(t, Fingerprint("bb"), set.Private()[0].Anchor)

	clone := set.Clone()
	clone.Records[0].Anchor = "zz"
	require.Equal(t, Fingerprint("aa"), set.Records[0].Anchor)
}
