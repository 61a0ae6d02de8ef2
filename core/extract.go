package core

import (
	"github.com/Serendipbrity/hide-comments-extension/models"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
)

// scannedLine is one physical line classified against the marker set.
type scannedLine struct {
	raw      string
	kind     lineKind
	indent   string // comment lines only
	marker   string
	text     string
	code     string // code portion with any inline comment removed
	inlineAt int    // byte offset of the inline marker, -1 when absent
	fp       models.Fingerprint
}

// scanLines classifies every line once so extraction, stripping and mode
// detection share the same view of the text. Code-line fingerprints hash
// the code portion only, which is what the line looks like after a strip.
func scanLines(lines []string, markers []string) []scannedLine {
	out := make([]scannedLine, len(lines))
	for i, raw := range lines {
		s := scannedLine{raw: raw, inlineAt: -1}
		switch {
		case isBlank(raw):
			s.kind = lineBlank
		default:
			if indent, marker, text, ok := SplitMarker(raw, markers); ok {
				s.kind = lineComment
				s.indent, s.marker, s.text = indent, marker, text
			} else {
				s.kind = lineCode
				s.code = raw
				if at := FindInlineMarker(raw, markers); at >= 0 {
					s.inlineAt = at
					s.code = raw[:at]
				}
				s.fp = FingerprintLine(s.code)
			}
		}
		out[i] = s
	}
	return out
}

// prevCodeFP returns the fingerprint of the nearest code line above i,
// or "" when none exists.
func prevCodeFP(scanned []scannedLine, i int) models.Fingerprint {
	for j := i - 1; j >= 0; j-- {
		if scanned[j].kind == lineCode {
			return scanned[j].fp
		}
	}
	return ""
}

// nextCodeFP returns the fingerprint of the nearest code line below i,
// or "" when none exists.
func nextCodeFP(scanned []scannedLine, i int) models.Fingerprint {
	for j := i + 1; j < len(scanned); j++ {
		if scanned[j].kind == lineCode {
			return scanned[j].fp
		}
	}
	return ""
}

func blankRunAbove(scanned []scannedLine, i int) int {
	n := 0
	for j := i - 1; j >= 0 && scanned[j].kind == lineBlank; j-- {
		n++
	}
	return n
}

// Extract scans text and returns every comment as an anchored record in
// ascending line order. Consecutive comment lines buffer into one block;
// blank lines between comment lines become interior payload spacing, while
// blank runs flanking a block are stored as counts. A block anchors to the
// code line below it. A block left at end of file anchors to the nearest
// code line above with Trailing set, or to the zero fingerprint when the
// document has no code at all.
func Extract(text, fileType string) []models.CommentRecord {
	lines, _ := splitLines(text)
	markers := activeMarkers.MarkersFor(fileType)
	scanned := scanLines(lines, markers)

	var records []models.CommentRecord
	var buf []models.PayloadLine
	bufStart := -1
	leading, pendingBlanks := 0, 0

	reset := func() {
		buf, bufStart = nil, -1
		leading, pendingBlanks = 0, 0
	}

	for i, s := range scanned {
		switch s.kind {
		case lineBlank:
			if bufStart >= 0 {
				pendingBlanks++
			}
		case lineComment:
			if bufStart < 0 {
				bufStart = i
				leading = blankRunAbove(scanned, i)
			} else if pendingBlanks > 0 {
				for b := i - pendingBlanks; b < i; b++ {
					buf = append(buf, models.PayloadLine{Indent: scanned[b].raw, OriginalLine: b})
				}
			}
			pendingBlanks = 0
			buf = append(buf, models.PayloadLine{Indent: s.indent, Marker: s.marker, Text: s.text, OriginalLine: i})
		case lineCode:
			if bufStart >= 0 {
				records = append(records, models.CommentRecord{
					Kind:               models.KindBlock,
					Anchor:             s.fp,
					ContextPrev:        prevCodeFP(scanned, bufStart),
					ContextNext:        nextCodeFP(scanned, i),
					Lines:              buf,
					LeadingBlankCount:  leading,
					TrailingBlankCount: pendingBlanks,
					OriginalLine:       bufStart,
				})
				reset()
			}
			if s.inlineAt >= 0 {
				records = append(records, models.CommentRecord{
					Kind:         models.KindInline,
					Anchor:       s.fp,
					ContextPrev:  prevCodeFP(scanned, i),
					ContextNext:  nextCodeFP(scanned, i),
					Inline:       s.raw[s.inlineAt:],
					OriginalLine: i,
				})
			}
		}
	}

	if bufStart >= 0 {
		rec := models.CommentRecord{
			Kind:               models.KindBlock,
			Anchor:             ZeroFingerprint,
			Lines:              buf,
			LeadingBlankCount:  leading,
			TrailingBlankCount: pendingBlanks,
			OriginalLine:       bufStart,
		}
		for j := bufStart - 1; j >= 0; j-- {
			if scanned[j].kind == lineCode {
				rec.Anchor = scanned[j].fp
				rec.Trailing = true
				rec.ContextPrev = prevCodeFP(scanned, j)
				break
			}
		}
		records = append(records, rec)
	}
	return records
}
