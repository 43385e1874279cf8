package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/news"
)

// fakeRemote echoes mutations back as server items, or fails on demand.
type fakeRemote struct {
	mu    sync.Mutex
	store *board.Store
	fail  error
	calls int
}

func (f *fakeRemote) record() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fail
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) UpdateStatus(_ context.Context, id string, status news.Status) (news.Item, error) {
	if err := f.record(); err != nil {
		return news.Item{}, err
	}
	it, _ := f.store.Get(id)
	it.Status = status
	return it, nil
}

func (f *fakeRemote) ToggleFavorite(_ context.Context, id string, value bool) (news.Item, error) {
	if err := f.record(); err != nil {
		return news.Item{}, err
	}
	it, _ := f.store.Get(id)
	it.Favorite = value
	return it, nil
}

func (f *fakeRemote) UpsertNote(_ context.Context, id, note string) (news.Item, error) {
	if err := f.record(); err != nil {
		return news.Item{}, err
	}
	it, _ := f.store.Get(id)
	it.Note = note
	return it, nil
}

func (f *fakeRemote) DeleteNote(_ context.Context, id string) (news.Item, error) {
	if err := f.record(); err != nil {
		return news.Item{}, err
	}
	it, _ := f.store.Get(id)
	it.Note = ""
	return it, nil
}

func appItem(id string, status news.Status) news.Item {
	return news.Item{
		ID:        id,
		Source:    "techblog",
		Title:     "Item " + id,
		Link:      "https://example.com/" + id,
		Status:    status,
		Category:  news.CategoryGeneral,
		UserID:    "user-1",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	app    App
	store  *board.Store
	remote *fakeRemote
	toasts *ToastBuf
}

func setupApp(t *testing.T, items ...news.Item) *fixture {
	t.Helper()
	store := board.NewStore()
	store.Load(items)
	remote := &fakeRemote{store: store}
	toasts := NewToastBuf()

	app := NewApp(AppConfig{
		Store:   store,
		Updater: board.NewUpdater(store, remote, toasts.Push),
		Drag:    board.NewDrag(store),
		Filter:  board.NewFilter(),
		Toasts:  toasts,
	})
	return &fixture{app: app, store: store, remote: remote, toasts: toasts}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends a key and keeps the updated model, returning the Cmd.
func (fx *fixture) press(t *testing.T, s string) tea.Cmd {
	t.Helper()
	model, cmd := fx.app.Update(key(s))
	fx.app = model.(App)
	return cmd
}

// deliver sends a message through Update, keeping the model.
func (fx *fixture) deliver(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := fx.app.Update(msg)
	fx.app = model.(App)
	return cmd
}

func TestCursorMovement(t *testing.T) {
	fx := setupApp(t,
		appItem("a", news.StatusPending),
		appItem("b", news.StatusPending),
		appItem("c", news.StatusReading),
	)

	fx.press(t, "j")
	if col, row := fx.app.Cursor(); col != 0 || row != 1 {
		t.Errorf("cursor after j: (%d, %d), want (0, 1)", col, row)
	}

	// Row clamps to the shorter target column.
	fx.press(t, "l")
	if col, row := fx.app.Cursor(); col != 1 || row != 0 {
		t.Errorf("cursor after l: (%d, %d), want (1, 0)", col, row)
	}

	// Can't move past the last column.
	fx.press(t, "l")
	fx.press(t, "l")
	if col, _ := fx.app.Cursor(); col != 2 {
		t.Errorf("column after ll: %d, want 2", col)
	}
}

// Picking a card up and dropping it back on its own column must not call
// the backend at all.
func TestDropInPlaceMakesNoRemoteCalls(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))

	fx.press(t, " ") // pick up
	cmd := fx.press(t, " ")
	if cmd != nil {
		t.Error("in-place drop produced a command")
	}
	if fx.remote.callCount() != 0 {
		t.Errorf("in-place drop made %d remote calls", fx.remote.callCount())
	}
	if it, _ := fx.store.Get("a"); it.Status != news.StatusPending {
		t.Errorf("item moved on in-place drop: %q", it.Status)
	}
}

func TestDragToAnotherColumn(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))

	fx.press(t, " ") // pick up
	fx.press(t, "l") // carry right
	cmd := fx.press(t, "enter")
	if cmd == nil {
		t.Fatal("cross-column drop produced no command")
	}

	// Optimistic: the store moved before the remote call ran.
	if it, _ := fx.store.Get("a"); it.Status != news.StatusReading {
		t.Fatalf("status before settle: %q, want reading", it.Status)
	}
	if fx.remote.callCount() != 0 {
		t.Fatal("remote called before the command ran")
	}

	fx.deliver(t, cmd())
	if it, _ := fx.store.Get("a"); it.Status != news.StatusReading {
		t.Errorf("status after settle: %q, want reading", it.Status)
	}
	if fx.remote.callCount() != 1 {
		t.Errorf("remote calls: %d, want 1", fx.remote.callCount())
	}
}

func TestDragCancelKeepsItem(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))

	fx.press(t, " ")
	fx.press(t, "l")
	fx.press(t, "esc")
	cmd := fx.press(t, " ") // space now picks up in the reading column (empty)
	if cmd != nil {
		t.Error("post-cancel space produced a command")
	}
	if it, _ := fx.store.Get("a"); it.Status != news.StatusPending {
		t.Errorf("canceled drag moved the item: %q", it.Status)
	}
}

// A failing mutation shows the optimistic state first, then rolls back and
// raises a toast when the failure lands.
func TestFavoriteFailureRollsBackWithToast(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))
	fx.remote.fail = errors.New("toggle favorite: network down")

	cmd := fx.press(t, "f")
	if cmd == nil {
		t.Fatal("favorite key produced no command")
	}
	if it, _ := fx.store.Get("a"); !it.Favorite {
		t.Fatal("favorite not applied optimistically")
	}

	fx.deliver(t, cmd())
	if it, _ := fx.store.Get("a"); it.Favorite {
		t.Error("favorite not rolled back after failure")
	}
	if fx.app.Toast() == "" {
		t.Error("no toast after failed mutation")
	}
}

func TestNoteEditorSavesNote(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))

	fx.press(t, "n")
	fx.press(t, "h") // plain rune goes to the text input, not the board
	fx.press(t, "i")
	cmd := fx.press(t, "enter")
	if cmd == nil {
		t.Fatal("note save produced no command")
	}

	if it, _ := fx.store.Get("a"); it.Note != "hi" {
		t.Fatalf("optimistic note: %q, want %q", it.Note, "hi")
	}
	if col, _ := fx.app.Cursor(); col != 0 {
		t.Error("note editor keys leaked into board navigation")
	}

	fx.deliver(t, cmd())
	if it, _ := fx.store.Get("a"); it.Note != "hi" {
		t.Errorf("note after settle: %q", it.Note)
	}
}

func TestNoteEditorEmptySubmitDeletes(t *testing.T) {
	item := appItem("a", news.StatusPending)
	item.Note = "stale note"
	fx := setupApp(t, item)

	fx.press(t, "n")
	// Clear the prefilled note.
	for range "stale note" {
		fx.deliver(t, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	cmd := fx.press(t, "enter")
	if cmd == nil {
		t.Fatal("empty submit produced no command")
	}

	fx.deliver(t, cmd())
	if it, _ := fx.store.Get("a"); it.Note != "" {
		t.Errorf("note after empty submit: %q, want deleted", it.Note)
	}
}

func TestFavoritesFilterToggleKey(t *testing.T) {
	fav := appItem("a", news.StatusPending)
	fav.Favorite = true
	fx := setupApp(t, fav, appItem("b", news.StatusPending))

	fx.press(t, "F")
	if got := fx.app.Visible().Total(); got != 1 {
		t.Errorf("favorites on: %d visible, want 1", got)
	}

	fx.press(t, "F")
	if got := fx.app.Visible().Total(); got != 2 {
		t.Errorf("favorites off: %d visible, want 2", got)
	}
}

func TestClearFilterKey(t *testing.T) {
	research := appItem("a", news.StatusPending)
	research.Category = news.CategoryResearch
	fx := setupApp(t, research, appItem("b", news.StatusPending))

	fx.press(t, "c") // category -> general
	if got := fx.app.Visible().Total(); got != 1 {
		t.Fatalf("category filter: %d visible, want 1", got)
	}

	fx.press(t, "x")
	if got := fx.app.Visible().Total(); got != 2 {
		t.Errorf("after clear: %d visible, want 2", got)
	}
}

func TestCacheLoadedSeedsOnlyEmptyStore(t *testing.T) {
	fx := setupApp(t)

	fx.deliver(t, CacheLoaded{Items: []news.Item{appItem("cached", news.StatusPending)}})
	if fx.store.Len() != 1 {
		t.Fatalf("cache did not seed empty store: %d items", fx.store.Len())
	}

	// A refresh has landed; a late cache read must not clobber it.
	fx.deliver(t, RefreshDone{Items: []news.Item{appItem("fresh", news.StatusReading)}})
	fx.deliver(t, CacheLoaded{Items: []news.Item{appItem("cached", news.StatusPending)}})

	if _, ok := fx.store.Get("fresh"); !ok {
		t.Error("cache load clobbered fresh data")
	}
	if _, ok := fx.store.Get("cached"); ok {
		t.Error("stale cache item resurfaced after refresh")
	}
}

func TestRefreshDoneErrorKeepsBoard(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))

	fx.deliver(t, RefreshDone{Err: errors.New("fetch items: network down")})

	if fx.store.Len() != 1 {
		t.Errorf("failed refresh dropped items: %d left", fx.store.Len())
	}
	if fx.app.Toast() == "" {
		t.Error("no toast after failed refresh")
	}
}

func TestToastClearsOnSeqMatch(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))
	fx.deliver(t, RefreshDone{Err: errors.New("boom")})
	if fx.app.Toast() == "" {
		t.Fatal("toast not shown")
	}

	// A stale timer (older seq) must not clear a newer toast.
	fx.deliver(t, clearToastMsg{seq: 0})
	if fx.app.Toast() == "" {
		t.Error("stale timer cleared the toast")
	}

	fx.deliver(t, clearToastMsg{seq: 1})
	if fx.app.Toast() != "" {
		t.Error("matching timer did not clear the toast")
	}
}

func TestAnyKeyDismissesToast(t *testing.T) {
	fx := setupApp(t, appItem("a", news.StatusPending))
	fx.deliver(t, RefreshDone{Err: errors.New("boom")})

	fx.press(t, "j")
	if fx.app.Toast() != "" {
		t.Error("keypress did not dismiss the toast")
	}
}
