package core

import (
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// StripStats reports what a strip pass removed and what it left visible.
type StripStats struct {
	RemovedBlocks  int
	RemovedInlines int
	KeptVisible    int // comments exempted by alwaysVisible or retained private records
}

// Strip removes comments from text, along with the blank runs that flank
// each removed block. The text is re-extracted and each found comment is
// matched against persisted records by kind and anchor, consuming matches
// in order; a comment stays in place when its record is flagged
// alwaysVisible, or isPrivate while keepPrivate is set. Inline comments
// are cut from the marker onward, leaving the code portion untouched.
// Stripping already-stripped text is a no-op.
func Strip(text, fileType string, persisted []models.CommentRecord, keepPrivate bool) (string, StripStats) {
	var stats StripStats
	lines, trailingNewline := splitLines(text)
	found := Extract(text, fileType)
	if len(found) == 0 {
		return text, stats
	}

	pool := make(map[models.RecordKey][]int)
	for i := range persisted {
		key := persisted[i].Key()
		pool[key] = append(pool[key], i)
	}
	take := func(key models.RecordKey) *models.CommentRecord {
		idxs := pool[key]
		if len(idxs) == 0 {
			return nil
		}
		pool[key] = idxs[1:]
		return &persisted[idxs[0]]
	}

	drop := make([]bool, len(lines))
	truncate := make(map[int]int)
	for _, c := range found {
		match := take(c.Key())
		if match != nil && (match.AlwaysVisible || (match.IsPrivate && keepPrivate)) {
			stats.KeptVisible++
			continue
		}
		switch c.Kind {
		case models.KindBlock:
			for _, pl := range c.Lines {
				drop[pl.OriginalLine] = true
			}
			first := c.Lines[0].OriginalLine
			for n := 1; n <= c.LeadingBlankCount; n++ {
				drop[first-n] = true
			}
			last := c.Lines[len(c.Lines)-1].OriginalLine
			for n := 1; n <= c.TrailingBlankCount; n++ {
				drop[last+n] = true
			}
			stats.RemovedBlocks++
		case models.KindInline:
			truncate[c.OriginalLine] = len(lines[c.OriginalLine]) - len(c.Inline)
			stats.RemovedInlines++
		}
	}

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if drop[i] {
			continue
		}
		if at, ok := truncate[i]; ok {
			line = line[:at]
		}
		out = append(out, line)
	}
	return joinLines(out, trailingNewline), stats
}
