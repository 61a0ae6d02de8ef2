package core

import (
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// ResolveAt maps a zero-based line of the current text to the index of the
// persisted record that owns it, for per-comment flag toggles. In
// commented text the line can sit anywhere inside a block's payload or on
// an inline comment's code line. In clean text the line is matched by its
// code fingerprint, so hidden comments can be addressed through their
// anchor line. Returns -1 when nothing resolves.
func ResolveAt(text, fileType string, records []models.CommentRecord, line int) int {
	lines, _ := splitLines(text)
	if line < 0 || line >= len(lines) {
		return -1
	}

	found := Extract(text, fileType)
	for _, c := range found {
		if !coversLine(&c, line) {
			continue
		}
		if idx := nearest(records, c.OriginalLine, func(r *models.CommentRecord) bool {
			return r.Key() == c.Key()
		}); idx >= 0 {
			return idx
		}
	}

	markers := activeMarkers.MarkersFor(fileType)
	code := lines[line]
	if at := FindInlineMarker(code, markers); at >= 0 {
		code = code[:at]
	}
	fp := FingerprintLine(code)
	return nearest(records, line, func(r *models.CommentRecord) bool {
		return r.Anchor == fp
	})
}

func coversLine(c *models.CommentRecord, line int) bool {
	if c.Kind == models.KindInline {
		return c.OriginalLine == line
	}
	for _, pl := range c.Lines {
		if pl.OriginalLine == line {
			return true
		}
	}
	return false
}

// nearest picks the matching record whose original line sits closest to
// refLine.
func nearest(records []models.CommentRecord, refLine int, match func(r *models.CommentRecord) bool) int {
	best, bestDist := -1, -1
	for i := range records {
		if !match(&records[i]) {
			continue
		}
		dist := records[i].OriginalLine - refLine
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
