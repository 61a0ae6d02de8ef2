package core

import (
	"sort"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

// ReconcileOptions tells a reconcile pass how the text it read was
// rendered.
type ReconcileOptions struct {
	// IncludePrivate is true when private records were visible in the
	// text. When false the private partition passes through untouched and
	// is never dropped against the text; a private comment still on
	// screen keeps its record instead of becoming a new shared one.
	IncludePrivate bool
}

// ReconcileStats reports what a reconcile pass changed.
type ReconcileStats struct {
	Matched      int
	Added        int
	CleanRouted  int
	CleanCleared int
	// Dropped holds commented-mode records whose comment disappeared from
	// the text; callers archive these.
	Dropped []models.CommentRecord
}

type textKey struct {
	kind models.CommentKind
	text string
}

// matchPool hands out record indices by kind+anchor, or by kind+payload
// text as a fallback, consuming each record at most once.
type matchPool struct {
	byKey  map[models.RecordKey][]int
	byText map[textKey][]int
	taken  map[int]bool
}

func newMatchPool(records []models.CommentRecord, include func(r *models.CommentRecord) bool) *matchPool {
	p := &matchPool{
		byKey:  make(map[models.RecordKey][]int),
		byText: make(map[textKey][]int),
		taken:  make(map[int]bool),
	}
	for i := range records {
		if include != nil && !include(&records[i]) {
			continue
		}
		key := records[i].Key()
		p.byKey[key] = append(p.byKey[key], i)
		tk := textKey{records[i].Kind, records[i].PayloadText()}
		p.byText[tk] = append(p.byText[tk], i)
	}
	return p
}

func (p *matchPool) popKey(key models.RecordKey) int {
	for len(p.byKey[key]) > 0 {
		i := p.byKey[key][0]
		p.byKey[key] = p.byKey[key][1:]
		if !p.taken[i] {
			p.taken[i] = true
			return i
		}
	}
	return -1
}

func (p *matchPool) popText(kind models.CommentKind, text string) int {
	tk := textKey{kind, text}
	for len(p.byText[tk]) > 0 {
		i := p.byText[tk][0]
		p.byText[tk] = p.byText[tk][1:]
		if !p.taken[i] {
			p.taken[i] = true
			return i
		}
	}
	return -1
}

// Reconcile folds the current text back into the persisted set. In
// commented mode the set is rebuilt from what the text actually contains,
// carrying each previous record's alwaysVisible and isPrivate flags across
// by kind+anchor, falling back to exact payload text so an edited code
// line does not shed its comment's flags. Records whose comment vanished
// are reported as dropped. In clean mode payloads are never touched: newly
// typed comment text routes into the matching record's clean-mode layer,
// unmatched comments become new records, and shared records whose comment
// is no longer present lose their clean-mode layer.
func Reconcile(currentText, fileType string, prev *models.CommentSet, mode models.Mode, opts ReconcileOptions) (*models.CommentSet, ReconcileStats) {
	if prev == nil {
		prev = &models.CommentSet{}
	}
	cur := Extract(currentText, fileType)
	if mode == models.ModeClean {
		return reconcileClean(cur, prev, opts)
	}
	return reconcileCommented(cur, prev, opts)
}

func reconcileCommented(cur []models.CommentRecord, prev *models.CommentSet, opts ReconcileOptions) (*models.CommentSet, ReconcileStats) {
	var stats ReconcileStats
	pool := newMatchPool(prev.Records, func(r *models.CommentRecord) bool {
		return opts.IncludePrivate || !r.IsPrivate
	})
	// a private comment can still be on screen when the caller's notion of
	// the rendering has drifted from the text; matching it here keeps its
	// record instead of letting it re-enter the set as a new shared record
	privatePool := newMatchPool(prev.Records, func(r *models.CommentRecord) bool {
		return !opts.IncludePrivate && r.IsPrivate
	})
	for i := range cur {
		j := pool.popKey(cur[i].Key())
		if j < 0 {
			j = pool.popText(cur[i].Kind, cur[i].PayloadText())
		}
		if j < 0 {
			j = privatePool.popKey(cur[i].Key())
		}
		if j < 0 {
			stats.Added++
			continue
		}
		cur[i].AlwaysVisible = prev.Records[j].AlwaysVisible
		cur[i].IsPrivate = prev.Records[j].IsPrivate
		stats.Matched++
	}
	next := &models.CommentSet{File: prev.File, Records: cur}
	if !opts.IncludePrivate {
		for j := range prev.Records {
			if prev.Records[j].IsPrivate && !privatePool.taken[j] {
				next.Records = append(next.Records, prev.Records[j])
			}
		}
		sort.SliceStable(next.Records, func(a, b int) bool {
			return next.Records[a].OriginalLine < next.Records[b].OriginalLine
		})
	}
	for j := range prev.Records {
		if pool.taken[j] || privatePool.taken[j] {
			continue
		}
		if prev.Records[j].IsPrivate && !opts.IncludePrivate {
			continue
		}
		stats.Dropped = append(stats.Dropped, prev.Records[j])
	}
	return next, stats
}

func reconcileClean(cur []models.CommentRecord, prev *models.CommentSet, opts ReconcileOptions) (*models.CommentSet, ReconcileStats) {
	var stats ReconcileStats
	next := prev.Clone()

	sharedPool := newMatchPool(next.Records, func(r *models.CommentRecord) bool {
		return !r.IsPrivate
	})
	// private comments can be on screen in clean mode (retained private
	// view, alwaysVisible); they are matched only so they never route or
	// turn into new shared records
	privatePool := newMatchPool(next.Records, func(r *models.CommentRecord) bool {
		return r.IsPrivate && (opts.IncludePrivate || r.AlwaysVisible)
	})

	var created []models.CommentRecord
	for i := range cur {
		if j := privatePool.popKey(cur[i].Key()); j >= 0 {
			continue
		}
		j := sharedPool.popKey(cur[i].Key())
		if j < 0 {
			nr := cur[i]
			if nr.Kind == models.KindInline {
				nr.CleanInline, nr.Inline = nr.Inline, ""
			} else {
				nr.CleanLines, nr.Lines = nr.Lines, nil
			}
			created = append(created, nr)
			stats.Added++
			continue
		}
		rec := &next.Records[j]
		if rec.PayloadText() == cur[i].PayloadText() {
			stats.Matched++
			continue
		}
		if cur[i].Kind == models.KindInline {
			rec.CleanInline = cur[i].Inline
		} else {
			rec.CleanLines = cur[i].Lines
		}
		stats.CleanRouted++
	}

	var result []models.CommentRecord
	for j := range next.Records {
		r := next.Records[j]
		if !r.IsPrivate && !sharedPool.taken[j] {
			if r.HasCleanPayload() {
				r.CleanLines, r.CleanInline = nil, ""
				stats.CleanCleared++
			}
			if isGhost(&r) {
				continue
			}
		}
		result = append(result, r)
	}
	next.Records = append(result, created...)
	return next, stats
}

// isGhost reports a record with no payload on either layer, left behind
// when a clean-mode comment was typed and then deleted before any merge.
func isGhost(r *models.CommentRecord) bool {
	if r.Kind == models.KindInline {
		return r.Inline == "" && r.CleanInline == ""
	}
	return len(r.Lines) == 0 && r.CleanLines == nil
}

// MergeCleanEdits folds each record's clean-mode layer into its payload,
// newest text first, and clears the layer. Returns how many records
// merged. Runs on the Clean to Commented toggle, before injection.
func MergeCleanEdits(set *models.CommentSet) int {
	if set == nil {
		return 0
	}
	merged := 0
	for i := range set.Records {
		r := &set.Records[i]
		if !r.HasCleanPayload() {
			continue
		}
		if r.Kind == models.KindInline {
			if r.Inline == "" {
				r.Inline = r.CleanInline
			} else {
				r.Inline = r.CleanInline + " " + r.Inline
			}
			r.CleanInline = ""
		} else {
			lines := make([]models.PayloadLine, 0, len(r.CleanLines)+len(r.Lines))
			lines = append(lines, r.CleanLines...)
			lines = append(lines, r.Lines...)
			r.Lines = lines
			r.CleanLines = nil
		}
		merged++
	}
	return merged
}
