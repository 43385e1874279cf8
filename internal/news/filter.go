package news

import "time"

// FilterSpec is a composable set of item constraints. All present constraints
// are AND-ed; the zero value matches everything.
//
// Favorites on purpose cannot be constrained to "not favorite": FavoritesOnly
// either narrows to favorites (true) or imposes no constraint (false). A
// tri-state here invites the classic "false sent as a filter value" bug, so
// the type makes it unrepresentable.
type FilterSpec struct {
	Category      *Category
	FavoritesOnly bool
	From          *time.Time // inclusive lower bound on CreatedAt
	To            *time.Time // inclusive upper bound on CreatedAt
	Limit         int        // 0 means server default
	Offset        int
}

// IsZero reports whether the spec imposes no constraints and no pagination.
func (f FilterSpec) IsZero() bool {
	return f.Category == nil && !f.FavoritesOnly &&
		f.From == nil && f.To == nil &&
		f.Limit == 0 && f.Offset == 0
}

// Match reports whether an item satisfies every present constraint.
// Pagination fields are ignored; they shape fetches, not membership.
func (f FilterSpec) Match(it Item) bool {
	if f.Category != nil && it.Category != *f.Category {
		return false
	}
	if f.FavoritesOnly && !it.Favorite {
		return false
	}
	if f.From != nil && it.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && it.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// Stats are aggregate counts derived from a board snapshot. They are never
// stored; recompute on every change.
type Stats struct {
	Pending   int `json:"pending"`
	Reading   int `json:"reading"`
	Read      int `json:"read"`
	Favorites int `json:"favorites"`
	Total     int `json:"total"`
}
