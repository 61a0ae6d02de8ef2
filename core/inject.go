package core

import (
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// InjectStats reports what an injection pass did.
type InjectStats struct {
	Injected int
	Skipped  int                     // alwaysVisible records and excluded private records
	Orphans  []models.CommentRecord  // records whose anchor matched no line
}

// Inject re-attaches records to clean text. Candidate lines are found by
// fingerprint, then scored by context: 10 points per matching neighbour
// fingerprint, lowest line index winning ties. Block records consume their
// candidate so repeated identical lines each receive their own block;
// inline records attach without consuming. Records flagged alwaysVisible
// are skipped because their text never left the document. Private records
// are skipped unless includePrivate is set. Records that resolve nowhere
// are dropped and reported in the stats.
func Inject(cleanText string, records []models.CommentRecord, includePrivate bool) (string, InjectStats) {
	var stats InjectStats
	lines, trailingNewline := splitLines(cleanText)

	candidates := make(map[models.Fingerprint][]int, len(lines))
	for i, l := range lines {
		fp := FingerprintLine(l)
		candidates[fp] = append(candidates[fp], i)
	}

	prevNB := make([]models.Fingerprint, len(lines))
	nextNB := make([]models.Fingerprint, len(lines))
	last := models.Fingerprint("")
	for i, l := range lines {
		prevNB[i] = last
		if !isBlank(l) {
			last = FingerprintLine(l)
		}
	}
	last = ""
	for i := len(lines) - 1; i >= 0; i-- {
		nextNB[i] = last
		if !isBlank(lines[i]) {
			last = FingerprintLine(lines[i])
		}
	}

	usedAbove := make(map[int]bool)
	usedAfter := make(map[int]bool)
	blocksAbove := make(map[int][]models.CommentRecord)
	blocksAfter := make(map[int][]models.CommentRecord)
	inlines := make(map[int][]models.CommentRecord)

	for _, rec := range records {
		if rec.AlwaysVisible || (rec.IsPrivate && !includePrivate) {
			stats.Skipped++
			continue
		}
		used := usedAbove
		if rec.Trailing {
			used = usedAfter
		}
		best, bestScore := -1, -1
		for _, idx := range candidates[rec.Anchor] {
			if rec.Kind == models.KindBlock && used[idx] {
				continue
			}
			score := 0
			if rec.ContextPrev == prevNB[idx] {
				score += 10
			}
			if rec.ContextNext == nextNB[idx] {
				score += 10
			}
			if score > bestScore {
				best, bestScore = idx, score
			}
		}
		if best < 0 {
			stats.Orphans = append(stats.Orphans, rec)
			continue
		}
		switch rec.Kind {
		case models.KindBlock:
			used[best] = true
			if rec.Trailing {
				blocksAfter[best] = append(blocksAfter[best], rec)
			} else {
				blocksAbove[best] = append(blocksAbove[best], rec)
			}
		case models.KindInline:
			inlines[best] = append(inlines[best], rec)
		}
		stats.Injected++
	}

	out := make([]string, 0, len(lines)+stats.Injected)
	emitBlock := func(rec models.CommentRecord) {
		for n := 0; n < rec.LeadingBlankCount; n++ {
			out = append(out, "")
		}
		for _, pl := range rec.CleanLines {
			out = append(out, pl.Raw())
		}
		for _, pl := range rec.Lines {
			out = append(out, pl.Raw())
		}
		for n := 0; n < rec.TrailingBlankCount; n++ {
			out = append(out, "")
		}
	}
	for i, line := range lines {
		for _, rec := range blocksAbove[i] {
			emitBlock(rec)
		}
		cur := line
		for _, rec := range inlines[i] {
			suffix := rec.Inline
			if rec.CleanInline != "" {
				if suffix == "" {
					suffix = rec.CleanInline
				} else {
					suffix = rec.CleanInline + " " + suffix
				}
			}
			if suffix == "" {
				continue
			}
			if cur != "" && cur[len(cur)-1] != ' ' && cur[len(cur)-1] != '\t' {
				cur += " "
			}
			cur += suffix
		}
		out = append(out, cur)
		for _, rec := range blocksAfter[i] {
			emitBlock(rec)
		}
	}
	return joinLines(out, trailingNewline), stats
}
