package board

import (
	"time"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// Filter holds the active filter specification and derives the visible
// subset of a snapshot. Evaluation is pure: same spec + same snapshot,
// same result.
type Filter struct {
	spec news.FilterSpec
}

// NewFilter creates a Filter with the empty (match-everything) spec.
func NewFilter() *Filter {
	return &Filter{}
}

// Spec returns the active filter specification.
func (f *Filter) Spec() news.FilterSpec { return f.spec }

// FilterPatch merges into the active spec. A nil field leaves the
// corresponding constraint unchanged; the Clear* flags remove it. Turning
// the favorites filter off is always a clear, never "favorites = false" -
// false is not a constraint the board can express.
type FilterPatch struct {
	Category      *news.Category
	ClearCategory bool

	FavoritesOnly      *bool // only true constrains; *false is the same as clearing
	From, To           *time.Time
	ClearFrom, ClearTo bool
}

// Set merges a patch into the active spec.
func (f *Filter) Set(p FilterPatch) {
	if p.ClearCategory {
		f.spec.Category = nil
	} else if p.Category != nil {
		c := *p.Category
		f.spec.Category = &c
	}
	if p.FavoritesOnly != nil {
		f.spec.FavoritesOnly = *p.FavoritesOnly
	}
	if p.ClearFrom {
		f.spec.From = nil
	} else if p.From != nil {
		t := *p.From
		f.spec.From = &t
	}
	if p.ClearTo {
		f.spec.To = nil
	} else if p.To != nil {
		t := *p.To
		f.spec.To = &t
	}
}

// Clear resets to the empty spec. Idempotent.
func (f *Filter) Clear() {
	f.spec = news.FilterSpec{}
}

// Visible returns the subset of the snapshot satisfying every present
// constraint, column structure preserved.
//
// An inverted date range (from after to) is a local validation problem: the
// range constraint is ignored for this evaluation and logged. It never
// reaches the backend and never breaks rendering.
func (f *Filter) Visible(sn Snapshot) Snapshot {
	spec := f.spec
	if spec.From != nil && spec.To != nil && spec.From.After(*spec.To) {
		logging.Warn("Ignoring inverted date range filter",
			"from", spec.From.Format(time.RFC3339), "to", spec.To.Format(time.RFC3339))
		spec.From = nil
		spec.To = nil
	}

	out := Snapshot{
		Columns: make(map[news.Status][]news.Item, len(sn.Columns)),
		Version: sn.Version,
	}
	for st, items := range sn.Columns {
		kept := make([]news.Item, 0, len(items))
		for _, it := range items {
			if spec.Match(it) {
				kept = append(kept, it)
			}
		}
		out.Columns[st] = kept
	}
	return out
}
