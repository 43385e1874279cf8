package board

import "github.com/abelbrown/newsboard/internal/news"

// ComputeStats derives aggregate counts from a snapshot.
//
// Counts are taken over the entire snapshot, not the filtered view: pass the
// store's own snapshot, never Filter.Visible output. Filter-independent
// totals are the product's observed contract (the header shows "8 items"
// even with a category filter narrowing the board to 2); whether that is the
// right behavior is a pending product decision, so don't change it here
// silently.
func ComputeStats(sn Snapshot) news.Stats {
	var st news.Stats
	for status, items := range sn.Columns {
		for _, it := range items {
			switch status {
			case news.StatusPending:
				st.Pending++
			case news.StatusReading:
				st.Reading++
			case news.StatusRead:
				st.Read++
			}
			if it.Favorite {
				st.Favorites++
			}
			st.Total++
		}
	}
	return st
}
