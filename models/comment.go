package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CommentKind distinguishes the two record shapes produced by extraction.
type CommentKind string

const (
	KindBlock  CommentKind = "block"
	KindInline CommentKind = "inline"
)

// Fingerprint is the content hash of a whitespace-trimmed source line,
// rendered as 16 lowercase hex characters. Two lines differing only in
// indentation share a fingerprint.
type Fingerprint string

// PayloadLine is one stored line of a block comment. Indent, Marker and
// Text concatenate back to the exact original line, trailing whitespace
// included. Interior blank lines inside a block are stored with the whole
// line in Indent and an empty Marker.
type PayloadLine struct {
	Indent       string `json:"indent"`
	Marker       string `json:"marker"`
	Text         string `json:"text"`
	OriginalLine int    `json:"originalLine"`
}

// Raw reassembles the stored line byte for byte.
func (p PayloadLine) Raw() string { return p.Indent + p.Marker + p.Text }

// Blank reports whether the stored line is interior block spacing rather
// than a marker line.
func (p PayloadLine) Blank() bool {
	return p.Marker == "" && strings.TrimSpace(p.Indent+p.Text) == ""
}

// CommentRecord is one anchored comment. Block records carry their payload
// in Lines, inline records carry the marker-onward text in Inline; both
// serialize under the single wire field "payload". Clean-mode edits are
// held apart in CleanLines/CleanInline until an explicit merge.
type CommentRecord struct {
	Kind        CommentKind `json:"kind"`
	Anchor      Fingerprint `json:"anchor"`
	ContextPrev Fingerprint `json:"contextPrev,omitempty"`
	ContextNext Fingerprint `json:"contextNext,omitempty"`

	Lines  []PayloadLine `json:"-"`
	Inline string        `json:"-"`

	CleanLines  []PayloadLine `json:"-"`
	CleanInline string        `json:"-"`

	AlwaysVisible      bool `json:"alwaysVisible,omitempty"`
	IsPrivate          bool `json:"isPrivate,omitempty"`
	LeadingBlankCount  int  `json:"leadingBlankCount,omitempty"`
	TrailingBlankCount int  `json:"trailingBlankCount,omitempty"`

	// OriginalLine is the zero-based line the comment occupied when last
	// reconciled against commented text: the first payload line for blocks,
	// the code line itself for inline records.
	OriginalLine int `json:"originalLine"`

	// Trailing marks an end-of-file block that anchors to the code line
	// above it instead of below.
	Trailing bool `json:"trailing,omitempty"`
}

// commentRecordWire is the serialized form; payload shape depends on kind.
type commentRecordWire struct {
	Kind               CommentKind     `json:"kind"`
	Anchor             Fingerprint     `json:"anchor"`
	ContextPrev        Fingerprint     `json:"contextPrev,omitempty"`
	ContextNext        Fingerprint     `json:"contextNext,omitempty"`
	Payload            json.RawMessage `json:"payload"`
	CleanModePayload   json.RawMessage `json:"cleanModePayload,omitempty"`
	AlwaysVisible      bool            `json:"alwaysVisible,omitempty"`
	IsPrivate          bool            `json:"isPrivate,omitempty"`
	LeadingBlankCount  int             `json:"leadingBlankCount,omitempty"`
	TrailingBlankCount int             `json:"trailingBlankCount,omitempty"`
	OriginalLine       int             `json:"originalLine"`
	Trailing           bool            `json:"trailing,omitempty"`
}

// MarshalJSON writes block payloads as PayloadLine arrays and inline
// payloads as plain strings.
func (r CommentRecord) MarshalJSON() ([]byte, error) {
	w := commentRecordWire{
		Kind:               r.Kind,
		Anchor:             r.Anchor,
		ContextPrev:        r.ContextPrev,
		ContextNext:        r.ContextNext,
		AlwaysVisible:      r.AlwaysVisible,
		IsPrivate:          r.IsPrivate,
		LeadingBlankCount:  r.LeadingBlankCount,
		TrailingBlankCount: r.TrailingBlankCount,
		OriginalLine:       r.OriginalLine,
		Trailing:           r.Trailing,
	}
	var err error
	switch r.Kind {
	case KindInline:
		if w.Payload, err = json.Marshal(r.Inline); err != nil {
			return nil, err
		}
		if r.CleanInline != "" {
			if w.CleanModePayload, err = json.Marshal(r.CleanInline); err != nil {
				return nil, err
			}
		}
	case KindBlock:
		lines := r.Lines
		if lines == nil {
			lines = []PayloadLine{}
		}
		if w.Payload, err = json.Marshal(lines); err != nil {
			return nil, err
		}
		if r.CleanLines != nil {
			if w.CleanModePayload, err = json.Marshal(r.CleanLines); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("cannot marshal comment record of unknown kind %q", r.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the payload according to the record kind.
func (r *CommentRecord) UnmarshalJSON(data []byte) error {
	var w commentRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Kind = w.Kind
	r.Anchor = w.Anchor
	r.ContextPrev = w.ContextPrev
	r.ContextNext = w.ContextNext
	r.AlwaysVisible = w.AlwaysVisible
	r.IsPrivate = w.IsPrivate
	r.LeadingBlankCount = w.LeadingBlankCount
	r.TrailingBlankCount = w.TrailingBlankCount
	r.OriginalLine = w.OriginalLine
	r.Trailing = w.Trailing
	r.Lines, r.Inline = nil, ""
	r.CleanLines, r.CleanInline = nil, ""
	switch w.Kind {
	case KindInline:
		if len(w.Payload) > 0 {
			if err := json.Unmarshal(w.Payload, &r.Inline); err != nil {
				return fmt.Errorf("inline payload: %w", err)
			}
		}
		if len(w.CleanModePayload) > 0 {
			if err := json.Unmarshal(w.CleanModePayload, &r.CleanInline); err != nil {
				return fmt.Errorf("inline cleanModePayload: %w", err)
			}
		}
	case KindBlock:
		if len(w.Payload) > 0 {
			if err := json.Unmarshal(w.Payload, &r.Lines); err != nil {
				return fmt.Errorf("block payload: %w", err)
			}
		}
		if len(w.CleanModePayload) > 0 {
			if err := json.Unmarshal(w.CleanModePayload, &r.CleanLines); err != nil {
				return fmt.Errorf("block cleanModePayload: %w", err)
			}
		}
	default:
		return fmt.Errorf("cannot unmarshal comment record of unknown kind %q", w.Kind)
	}
	return nil
}

// PayloadText returns the payload as a single string, used for exact-text
// matching during reconciliation.
func (r *CommentRecord) PayloadText() string {
	if r.Kind == KindInline {
		return r.Inline
	}
	raws := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		raws[i] = l.Raw()
	}
	return strings.Join(raws, "\n")
}

// HasCleanPayload reports whether un-merged clean-mode edits are attached.
func (r *CommentRecord) HasCleanPayload() bool {
	if r.Kind == KindInline {
		return r.CleanInline != ""
	}
	return r.CleanLines != nil
}

// RecordKey identifies a record by kind and anchor for matching.
type RecordKey struct {
	Kind   CommentKind
	Anchor Fingerprint
}

// Key returns the record's matching key.
func (r *CommentRecord) Key() RecordKey {
	return RecordKey{Kind: r.Kind, Anchor: r.Anchor}
}
