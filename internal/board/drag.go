package board

import (
	"fmt"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// DragState is the phase of the drag gesture state machine.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
)

// Drag turns pick-up/drop gestures into column-transition intents. It is a
// two-state machine: Idle until Start picks an item up, back to Idle on
// Drop or Cancel. Reordering within a column is a pure UI affordance and
// never produces an intent.
type Drag struct {
	store *Store

	state  DragState
	itemID string
	source news.Status
}

// NewDrag creates a Drag over the given store.
func NewDrag(store *Store) *Drag {
	return &Drag{store: store}
}

// State returns the current gesture phase.
func (d *Drag) State() DragState { return d.state }

// ItemID returns the id of the item being dragged, or "" when idle.
func (d *Drag) ItemID() string {
	if d.state != DragActive {
		return ""
	}
	return d.itemID
}

// Source returns the column the dragged item was picked up from.
func (d *Drag) Source() news.Status { return d.source }

// Start begins dragging the given item, recording its source column.
// Starting while already dragging replaces the gesture.
func (d *Drag) Start(itemID string) error {
	it, ok := d.store.Get(itemID)
	if !ok {
		return fmt.Errorf("item not found: %s", itemID)
	}
	d.state = DragActive
	d.itemID = itemID
	d.source = it.Status
	return nil
}

// Cancel abandons the gesture with no side effects. Safe to call when idle.
func (d *Drag) Cancel() {
	d.state = DragIdle
	d.itemID = ""
}

// Drop ends the gesture on the target column and returns the resulting
// status-change intent, or nil when no mutation should be issued:
//
//   - dropping on the source column (or an invalid target, which is treated
//     the same way) is a no-op;
//   - an item that left the store mid-drag (e.g. refetched away) aborts the
//     gesture.
//
// The machine returns to Idle either way.
func (d *Drag) Drop(target news.Status) *Intent {
	if d.state != DragActive {
		return nil
	}
	itemID, source := d.itemID, d.source
	d.Cancel()

	if !target.Valid() || target == source {
		return nil
	}
	if _, ok := d.store.Get(itemID); !ok {
		logging.Debug("Drag aborted, item left the store", "id", itemID)
		return nil
	}
	return &Intent{ItemID: itemID, Kind: IntentStatusChange, Status: target}
}
