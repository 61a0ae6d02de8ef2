package models

import "time"

// Mode is the visibility state of a document.
type Mode string

const (
	ModeCommented Mode = "commented"
	ModeClean     Mode = "clean"
)

// Toggled returns the opposite mode.
func (m Mode) Toggled() Mode {
	if m == ModeClean {
		return ModeCommented
	}
	return ModeClean
}

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeCommented || m == ModeClean
}

// CommentSet is the persisted comment state for one file. Records keep
// ascending original-line order; shared and private records live side by
// side in memory and are split into separate side files on save.
type CommentSet struct {
	File         string          `json:"file"`
	LastModified time.Time       `json:"lastModified"`
	Records      []CommentRecord `json:"records"`
}

// Shared returns the records that belong in the shared side file.
func (s *CommentSet) Shared() []CommentRecord {
	var out []CommentRecord
	for _, r := range s.Records {
		if !r.IsPrivate {
			out = append(out, r)
		}
	}
	return out
}

// Private returns the records that belong in the private side file.
func (s *CommentSet) Private() []CommentRecord {
	var out []CommentRecord
	for _, r := range s.Records {
		if r.IsPrivate {
			out = append(out, r)
		}
	}
	return out
}

// Clone deep-copies the set so cached instances stay isolated from callers.
func (s *CommentSet) Clone() *CommentSet {
	if s == nil {
		return nil
	}
	out := &CommentSet{File: s.File, LastModified: s.LastModified}
	out.Records = make([]CommentRecord, len(s.Records))
	copy(out.Records, s.Records)
	for i := range out.Records {
		if out.Records[i].Lines != nil {
			lines := make([]PayloadLine, len(out.Records[i].Lines))
			copy(lines, out.Records[i].Lines)
			out.Records[i].Lines = lines
		}
		if out.Records[i].CleanLines != nil {
			lines := make([]PayloadLine, len(out.Records[i].CleanLines))
			copy(lines, out.Records[i].CleanLines)
			out.Records[i].CleanLines = lines
		}
	}
	return out
}
