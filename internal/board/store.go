// Package board implements the client-side synchronization engine for the
// reading board: the canonical in-memory item store, optimistic mutations
// with rollback, the drag gesture state machine, filtering, and derived
// statistics.
//
// # Threading
//
// Everything in this package is synchronous and intended to run on a single
// goroutine (the UI event loop). Remote calls are the only thing that
// suspends, and they run elsewhere: Updater.Do is called from a command
// goroutine and its Result re-enters the loop through Updater.Finish. Given
// that discipline no locking is needed, and none is provided.
package board

import (
	"time"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// Store is the canonical in-memory cache of the items visible to the current
// user. It is the single source of truth for rendering: the UI never keeps
// its own item copies beyond one frame.
//
// NOT an interface - concrete type, mirroring how the rest of the client
// treats its data layer.
type Store struct {
	byID    map[string]*news.Item
	order   []string // insertion order of ids; rendering order within a column
	version uint64   // bumped on every successful write
	subs    []func()
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*news.Item)}
}

// Version returns the current snapshot version. It increases monotonically
// with every Load and every effective Patch.
func (s *Store) Version() uint64 { return s.version }

// Len returns the number of items in the store.
func (s *Store) Len() int { return len(s.byID) }

// Subscribe registers fn to run synchronously after every store change.
// Subscribers must not mutate the store from within the callback.
func (s *Store) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.version++
	for _, fn := range s.subs {
		fn()
	}
}

// Load replaces the full snapshot with items. Items failing validation are
// skipped with a warning rather than poisoning the board; duplicate ids keep
// the last occurrence.
func (s *Store) Load(items []news.Item) {
	s.byID = make(map[string]*news.Item, len(items))
	s.order = s.order[:0]
	for _, it := range items {
		if err := it.Validate(); err != nil {
			logging.Warn("Dropping invalid item on load", "error", err)
			continue
		}
		it := it
		if _, seen := s.byID[it.ID]; !seen {
			s.order = append(s.order, it.ID)
		}
		s.byID[it.ID] = &it
	}
	s.notify()
}

// Change is a partial item update. Nil fields are left untouched. When
// Replace is set the whole item is substituted (the reconciliation path for
// server-confirmed state).
type Change struct {
	Replace   *news.Item
	Status    *news.Status
	Favorite  *bool
	Note      *string
	UpdatedAt *time.Time
}

// Patch merges a partial update into one item and reports whether anything
// was applied. A patch against an unknown id is a silent no-op: mutations
// racing with server-side deletion must not crash the board.
func (s *Store) Patch(id string, ch Change) bool {
	it, ok := s.byID[id]
	if !ok {
		logging.Debug("Patch on unknown item ignored", "id", id)
		return false
	}

	if ch.Replace != nil {
		if err := ch.Replace.Validate(); err != nil {
			logging.Warn("Rejecting invalid item replacement", "id", id, "error", err)
			return false
		}
		replaced := *ch.Replace
		*it = replaced
		s.notify()
		return true
	}

	if ch.Status != nil {
		if !ch.Status.Valid() {
			logging.Warn("Rejecting invalid status patch", "id", id, "status", *ch.Status)
			return false
		}
		it.Status = *ch.Status
	}
	if ch.Favorite != nil {
		it.Favorite = *ch.Favorite
	}
	if ch.Note != nil {
		it.Note = *ch.Note
	}
	if ch.UpdatedAt != nil {
		it.UpdatedAt = ch.UpdatedAt
	}
	s.notify()
	return true
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (news.Item, bool) {
	it, ok := s.byID[id]
	if !ok {
		return news.Item{}, false
	}
	return *it, true
}

// Snapshot is a read-only view of the store grouped by status. The three
// lists preserve the store's rendering order. Snapshots are value copies;
// holding one across store writes is safe but stale.
type Snapshot struct {
	Columns map[news.Status][]news.Item
	Version uint64
}

// Snapshot returns the current grouped view.
func (s *Store) Snapshot() Snapshot {
	cols := make(map[news.Status][]news.Item, len(news.Statuses))
	for _, st := range news.Statuses {
		cols[st] = []news.Item{}
	}
	for _, id := range s.order {
		it, ok := s.byID[id]
		if !ok {
			continue
		}
		cols[it.Status] = append(cols[it.Status], *it)
	}
	return Snapshot{Columns: cols, Version: s.version}
}

// Items returns all items in rendering order.
func (s *Store) Items() []news.Item {
	items := make([]news.Item, 0, len(s.order))
	for _, id := range s.order {
		if it, ok := s.byID[id]; ok {
			items = append(items, *it)
		}
	}
	return items
}

// Column returns one status list from a snapshot, never nil.
func (sn Snapshot) Column(st news.Status) []news.Item {
	if sn.Columns == nil {
		return []news.Item{}
	}
	return sn.Columns[st]
}

// Total returns the number of items across all columns of the snapshot.
func (sn Snapshot) Total() int {
	n := 0
	for _, items := range sn.Columns {
		n += len(items)
	}
	return n
}
