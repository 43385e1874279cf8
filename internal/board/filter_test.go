package board

import (
	"testing"
	"time"

	"github.com/abelbrown/newsboard/internal/news"
)

// boardItems is a small mixed board: two general, two research, two product,
// one tutorial, one opinion, spread over the three columns.
func boardItems() []news.Item {
	mk := func(id string, st news.Status, cat news.Category, fav bool, day int) news.Item {
		it := testItem(id, st)
		it.Category = cat
		it.Favorite = fav
		it.CreatedAt = time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
		return it
	}
	return []news.Item{
		mk("g1", news.StatusPending, news.CategoryGeneral, false, 1),
		mk("g2", news.StatusReading, news.CategoryGeneral, true, 2),
		mk("r1", news.StatusPending, news.CategoryResearch, false, 3),
		mk("r2", news.StatusRead, news.CategoryResearch, false, 4),
		mk("p1", news.StatusPending, news.CategoryProduct, true, 5),
		mk("p2", news.StatusReading, news.CategoryProduct, false, 6),
		mk("t1", news.StatusRead, news.CategoryTutorial, false, 7),
		mk("o1", news.StatusPending, news.CategoryOpinion, true, 8),
	}
}

func visibleIDs(sn Snapshot) map[string]bool {
	ids := make(map[string]bool)
	for _, items := range sn.Columns {
		for _, it := range items {
			ids[it.ID] = true
		}
	}
	return ids
}

func TestFilterCategory(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	cat := news.CategoryProduct
	f.Set(FilterPatch{Category: &cat})

	vis := f.Visible(s.Snapshot())
	ids := visibleIDs(vis)
	if len(ids) != 2 || !ids["p1"] || !ids["p2"] {
		t.Errorf("category=product visible ids: %v, want {p1, p2}", ids)
	}

	// Column structure must survive filtering.
	if got := len(vis.Column(news.StatusPending)); got != 1 {
		t.Errorf("pending column: %d items, want 1", got)
	}
	if got := len(vis.Column(news.StatusReading)); got != 1 {
		t.Errorf("reading column: %d items, want 1", got)
	}
	if got := len(vis.Column(news.StatusRead)); got != 0 {
		t.Errorf("read column: %d items, want 0", got)
	}
}

// Clearing the favorites filter must restore the full board; an off switch
// is never a "favorites = false" constraint.
func TestFavoritesFilterOffRestoresAll(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	on, off := true, false
	f.Set(FilterPatch{FavoritesOnly: &on})
	if got := len(visibleIDs(f.Visible(s.Snapshot()))); got != 3 {
		t.Fatalf("favorites on: %d visible, want 3", got)
	}

	f.Set(FilterPatch{FavoritesOnly: &off})
	if got := len(visibleIDs(f.Visible(s.Snapshot()))); got != 8 {
		t.Errorf("favorites off: %d visible, want all 8", got)
	}
}

func TestFilterConjunction(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	cat := news.CategoryProduct
	on := true
	f.Set(FilterPatch{Category: &cat, FavoritesOnly: &on})

	ids := visibleIDs(f.Visible(s.Snapshot()))
	if len(ids) != 1 || !ids["p1"] {
		t.Errorf("product+favorites visible ids: %v, want {p1}", ids)
	}
}

func TestFilterDateRange(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 23, 59, 59, 0, time.UTC)
	f.Set(FilterPatch{From: &from, To: &to})

	ids := visibleIDs(f.Visible(s.Snapshot()))
	if len(ids) != 3 || !ids["r1"] || !ids["r2"] || !ids["p1"] {
		t.Errorf("date range visible ids: %v, want {r1, r2, p1}", ids)
	}
}

// Inclusive bounds: an item created exactly at the boundary stays visible.
func TestFilterDateBoundsInclusive(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	from := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	f.Set(FilterPatch{From: &from})

	ids := visibleIDs(f.Visible(s.Snapshot()))
	if len(ids) != 1 || !ids["o1"] {
		t.Errorf("boundary item: %v, want {o1}", ids)
	}
}

// An inverted range is ignored for evaluation rather than hiding everything.
func TestFilterInvertedRangeIgnored(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.Set(FilterPatch{From: &from, To: &to})

	if got := len(visibleIDs(f.Visible(s.Snapshot()))); got != 8 {
		t.Errorf("inverted range: %d visible, want all 8", got)
	}
}

func TestFilterClearIdempotent(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()

	cat := news.CategoryResearch
	on := true
	f.Set(FilterPatch{Category: &cat, FavoritesOnly: &on})

	f.Clear()
	if !f.Spec().IsZero() {
		t.Errorf("spec after Clear: %+v, want zero", f.Spec())
	}
	if got := len(visibleIDs(f.Visible(s.Snapshot()))); got != 8 {
		t.Errorf("after Clear: %d visible, want 8", got)
	}

	f.Clear()
	if !f.Spec().IsZero() {
		t.Error("second Clear changed the spec")
	}
}

func TestFilterPatchMergesIncrementally(t *testing.T) {
	f := NewFilter()

	cat := news.CategoryGeneral
	f.Set(FilterPatch{Category: &cat})
	on := true
	f.Set(FilterPatch{FavoritesOnly: &on})

	spec := f.Spec()
	if spec.Category == nil || *spec.Category != news.CategoryGeneral {
		t.Error("merging the favorites patch dropped the category constraint")
	}
	if !spec.FavoritesOnly {
		t.Error("favorites constraint not set")
	}

	f.Set(FilterPatch{ClearCategory: true})
	spec = f.Spec()
	if spec.Category != nil {
		t.Error("ClearCategory left a category constraint")
	}
	if !spec.FavoritesOnly {
		t.Error("ClearCategory disturbed the favorites constraint")
	}
}

func TestVisibleIsPure(t *testing.T) {
	s := NewStore()
	s.Load(boardItems())
	f := NewFilter()
	cat := news.CategoryTutorial
	f.Set(FilterPatch{Category: &cat})

	sn := s.Snapshot()
	f.Visible(sn)

	// The input snapshot is untouched.
	if sn.Total() != 8 {
		t.Errorf("Visible mutated its input: %d items left", sn.Total())
	}
}
