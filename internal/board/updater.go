package board

import (
	"context"
	"fmt"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// Remote is the slice of the backend the updater needs. *api.Client
// satisfies it; tests substitute fakes.
type Remote interface {
	UpdateStatus(ctx context.Context, id string, status news.Status) (news.Item, error)
	ToggleFavorite(ctx context.Context, id string, value bool) (news.Item, error)
	UpsertNote(ctx context.Context, id, note string) (news.Item, error)
	DeleteNote(ctx context.Context, id string) (news.Item, error)
}

// ErrorSink receives user-facing failure messages (the toast).
type ErrorSink func(message string)

// IntentKind names a mutation intent.
type IntentKind string

const (
	IntentStatusChange   IntentKind = "status_change"
	IntentFavoriteToggle IntentKind = "favorite_toggle"
	IntentNoteUpsert     IntentKind = "note_upsert"
	IntentNoteDelete     IntentKind = "note_delete"
)

// Intent describes a user-initiated mutation before it is applied.
type Intent struct {
	ItemID string
	Kind   IntentKind
	Status news.Status // target column, IntentStatusChange only
	Note   string      // new note text, IntentNoteUpsert only
}

// prior captures the mutable fields of an item before an optimistic write,
// for rollback.
type prior struct {
	status   news.Status
	favorite bool
	note     string
}

// Mutation is one in-flight optimistic mutation. Created by Begin, executed
// by Do, settled by Finish.
type Mutation struct {
	ItemID string
	Kind   IntentKind
	Seq    uint64

	status   news.Status // target, status change
	favorite bool        // target, favorite toggle
	note     string      // target, note upsert

	prior prior
}

// Result is the settled outcome of a mutation's remote call.
type Result struct {
	Mutation *Mutation
	Item     news.Item // server's view, valid when Err is nil
	Err      error
}

// Updater drives the optimistic mutation lifecycle: apply locally, call the
// backend, then reconcile or roll back. Per-item mutations are ordered by a
// monotonically increasing sequence number; a late response never overwrites
// the effect of a later-issued mutation on the same item.
//
// Begin and Finish must run on the event loop; Do is the only method safe to
// call from another goroutine.
type Updater struct {
	store  *Store
	remote Remote
	notify ErrorSink

	nextSeq uint64
	latest  map[string]uint64 // last issued seq per item
	closed  bool
}

// NewUpdater creates an Updater over the given store and backend.
// notify may be nil, which discards error messages.
func NewUpdater(store *Store, remote Remote, notify ErrorSink) *Updater {
	if notify == nil {
		notify = func(string) {}
	}
	return &Updater{
		store:  store,
		remote: remote,
		notify: notify,
		latest: make(map[string]uint64),
	}
}

// Begin validates an intent, snapshots the item's pre-mutation fields, and
// applies the change to the store immediately, before any network round
// trip. The returned Mutation must then be run with Do and settled with
// Finish.
//
// Returns an error if the item is no longer in the store or the intent is
// malformed; in either case the store is untouched.
func (u *Updater) Begin(intent Intent) (*Mutation, error) {
	if u.closed {
		return nil, fmt.Errorf("updater closed")
	}
	it, ok := u.store.Get(intent.ItemID)
	if !ok {
		return nil, fmt.Errorf("item not found: %s", intent.ItemID)
	}

	u.nextSeq++
	m := &Mutation{
		ItemID: intent.ItemID,
		Kind:   intent.Kind,
		Seq:    u.nextSeq,
		prior: prior{
			status:   it.Status,
			favorite: it.Favorite,
			note:     it.Note,
		},
	}

	var ch Change
	switch intent.Kind {
	case IntentStatusChange:
		if !intent.Status.Valid() {
			return nil, fmt.Errorf("invalid target status: %q", intent.Status)
		}
		m.status = intent.Status
		ch.Status = &m.status
	case IntentFavoriteToggle:
		m.favorite = !it.Favorite
		ch.Favorite = &m.favorite
	case IntentNoteUpsert:
		m.note = intent.Note
		ch.Note = &m.note
	case IntentNoteDelete:
		m.note = ""
		ch.Note = &m.note
	default:
		return nil, fmt.Errorf("unknown intent kind: %q", intent.Kind)
	}

	u.store.Patch(m.ItemID, ch)
	u.latest[m.ItemID] = m.Seq

	logging.Debug("Mutation begun", "id", m.ItemID, "kind", m.Kind, "seq", m.Seq)
	return m, nil
}

// Do performs the remote call for a mutation and returns its Result. It
// blocks until the backend answers or ctx is done, so run it off the event
// loop (inside a tea.Cmd) and feed the Result back through Finish.
func (u *Updater) Do(ctx context.Context, m *Mutation) Result {
	var (
		item news.Item
		err  error
	)
	switch m.Kind {
	case IntentStatusChange:
		item, err = u.remote.UpdateStatus(ctx, m.ItemID, m.status)
	case IntentFavoriteToggle:
		item, err = u.remote.ToggleFavorite(ctx, m.ItemID, m.favorite)
	case IntentNoteUpsert:
		item, err = u.remote.UpsertNote(ctx, m.ItemID, m.note)
	case IntentNoteDelete:
		item, err = u.remote.DeleteNote(ctx, m.ItemID)
	default:
		err = fmt.Errorf("unknown intent kind: %q", m.Kind)
	}
	return Result{Mutation: m, Item: item, Err: err}
}

// Finish settles a mutation on the event loop.
//
// Success accepts the server's item as final, unless a newer mutation for
// the same item was issued in the meantime - then the late response is
// dropped, because the newer optimistic state (and its own eventual
// reconciliation) wins.
//
// Failure rolls the item back to its pre-mutation snapshot and notifies the
// error sink exactly once. A superseded failure skips the rollback for the
// same reason but still surfaces the error. Failed mutations are never
// retried; recovery takes a fresh user action.
func (u *Updater) Finish(r Result) {
	if u.closed {
		logging.Debug("Dropping mutation result after close", "id", resultID(r))
		return
	}
	m := r.Mutation
	if m == nil {
		return
	}
	superseded := u.latest[m.ItemID] > m.Seq

	if r.Err == nil {
		if superseded {
			logging.Debug("Dropping stale mutation response", "id", m.ItemID, "seq", m.Seq)
			return
		}
		item := r.Item
		u.store.Patch(m.ItemID, Change{Replace: &item})
		return
	}

	logging.Warn("Mutation failed", "id", m.ItemID, "kind", m.Kind, "seq", m.Seq, "error", r.Err)
	if !superseded {
		u.store.Patch(m.ItemID, Change{
			Status:   &m.prior.status,
			Favorite: &m.prior.favorite,
			Note:     &m.prior.note,
		})
	}
	u.notify(failureMessage(m.Kind, r.Err))
}

// Close tears the updater down. Later Finish calls become no-ops, so
// responses that arrive after the board is gone never mutate the store.
func (u *Updater) Close() {
	u.closed = true
}

func resultID(r Result) string {
	if r.Mutation == nil {
		return ""
	}
	return r.Mutation.ItemID
}

// failureMessage turns a failed mutation into a one-line toast.
func failureMessage(kind IntentKind, err error) string {
	verb := "update"
	switch kind {
	case IntentStatusChange:
		verb = "move"
	case IntentFavoriteToggle:
		verb = "favorite"
	case IntentNoteUpsert:
		verb = "save note for"
	case IntentNoteDelete:
		verb = "delete note for"
	}
	return fmt.Sprintf("Couldn't %s item: %v", verb, err)
}
