package core

import (
	"strings"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

// detectSampleSize caps how many records DetectMode inspects.
const detectSampleSize = 10

// DetectMode decides whether text currently shows its comments. With a
// persisted set it samples up to ten shared, non-alwaysVisible records and
// checks whether their payload text still sits at its recorded line; a
// majority of misses means clean. Without a usable sample the text itself
// decides: commented iff the classifier finds any comment at all.
func DetectMode(text, fileType string, set *models.CommentSet) models.Mode {
	lines, _ := splitLines(text)
	if set != nil {
		checked, present := 0, 0
		for i := range set.Records {
			r := &set.Records[i]
			if r.AlwaysVisible || r.IsPrivate {
				continue
			}
			if recordPresent(r, lines) {
				present++
			}
			checked++
			if checked == detectSampleSize {
				break
			}
		}
		if checked > 0 {
			if present*2 >= checked {
				return models.ModeCommented
			}
			return models.ModeClean
		}
	}

	markers := activeMarkers.MarkersFor(fileType)
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if IsCommentLine(l, markers) || FindInlineMarker(l, markers) >= 0 {
			return models.ModeCommented
		}
	}
	return models.ModeClean
}

// recordPresent checks whether the record's payload text is physically at
// its stored original line.
func recordPresent(r *models.CommentRecord, lines []string) bool {
	if r.Kind == models.KindInline {
		if r.Inline == "" || r.OriginalLine < 0 || r.OriginalLine >= len(lines) {
			return false
		}
		return strings.Contains(lines[r.OriginalLine], r.Inline)
	}
	for _, pl := range r.Lines {
		if pl.Blank() {
			continue
		}
		if pl.OriginalLine < 0 || pl.OriginalLine >= len(lines) {
			return false
		}
		return lines[pl.OriginalLine] == pl.Raw()
	}
	return false
}
