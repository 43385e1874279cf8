package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/news"
)

// toastDuration is how long an error toast stays up without a keypress.
const toastDuration = 5 * time.Second

// ToastBuf collects error-sink messages between event-loop turns. The board
// engine pushes during Updater.Finish; the App drains right after. Shared by
// pointer so the sink closure and the value-copied model see one buffer.
type ToastBuf struct {
	msgs []string
}

// NewToastBuf creates an empty buffer.
func NewToastBuf() *ToastBuf { return &ToastBuf{} }

// Push appends a message. Satisfies board.ErrorSink.
func (t *ToastBuf) Push(msg string) { t.msgs = append(t.msgs, msg) }

// Drain returns and clears all pending messages.
func (t *ToastBuf) Drain() []string {
	out := t.msgs
	t.msgs = nil
	return out
}

// AppConfig wires the App's collaborators. All commands are injected so
// tests can substitute fakes, same as the rest of the client.
type AppConfig struct {
	Ctx     context.Context
	Store   *board.Store
	Updater *board.Updater
	Drag    *board.Drag
	Filter  *board.Filter
	Toasts  *ToastBuf

	// LoadCache returns a Cmd reading the local snapshot cache (startup).
	LoadCache func() tea.Cmd
	// Refresh returns a Cmd performing a one-shot backend fetch.
	Refresh func() tea.Cmd
}

// App is the root Bubble Tea model: three columns, keyboard drag, filters,
// stats, note editor, error toast.
//
// App owns no item state of its own beyond one frame's derived snapshot;
// the board.Store is the source of truth.
type App struct {
	cfg AppConfig

	visible board.Snapshot
	stats   news.Stats

	col int // cursor column, index into news.Statuses
	row int // cursor row within the active column

	width   int
	height  int
	ready   bool
	loading bool

	toast    string
	toastSeq int

	noteEditing bool
	noteItemID  string
	noteInput   textinput.Model

	spin spinner.Model
}

// NewApp creates the root model.
func NewApp(cfg AppConfig) App {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	ti := textinput.New()
	ti.Placeholder = "personal note"
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{cfg: cfg, noteInput: ti, spin: sp}
	a.refreshDerived()
	return a
}

// Init loads the cached board and kicks off the first refresh spinner.
func (a App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.cfg.LoadCache != nil {
		cmds = append(cmds, a.cfg.LoadCache())
	}
	cmds = append(cmds, a.spin.Tick)
	return tea.Batch(cmds...)
}

// refreshDerived recomputes the visible snapshot and stats from the store
// and clamps the cursor. Call after anything that may have changed the store
// or the filter spec.
func (a *App) refreshDerived() {
	if a.cfg.Store == nil {
		return
	}
	full := a.cfg.Store.Snapshot()
	a.stats = board.ComputeStats(full)
	if a.cfg.Filter != nil {
		a.visible = a.cfg.Filter.Visible(full)
	} else {
		a.visible = full
	}
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.col < 0 {
		a.col = 0
	}
	if a.col >= len(news.Statuses) {
		a.col = len(news.Statuses) - 1
	}
	n := len(a.visible.Column(news.Statuses[a.col]))
	if a.row >= n {
		a.row = n - 1
	}
	if a.row < 0 {
		a.row = 0
	}
}

// itemUnderCursor returns the item the cursor is on.
func (a App) itemUnderCursor() (news.Item, bool) {
	items := a.visible.Column(news.Statuses[a.col])
	if a.row < 0 || a.row >= len(items) {
		return news.Item{}, false
	}
	return items[a.row], true
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.noteEditing {
			return a.handleNoteKey(msg)
		}
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case CacheLoaded:
		// The cache only seeds an empty board; a refresh that already
		// landed is fresher than anything on disk.
		if msg.Err == nil && len(msg.Items) > 0 && a.cfg.Store.Len() == 0 {
			a.cfg.Store.Load(msg.Items)
			a.refreshDerived()
		}
		return a, nil

	case RefreshDone:
		a.loading = false
		if msg.Err != nil {
			return a.showToast("Refresh failed: " + msg.Err.Error())
		}
		a.cfg.Store.Load(msg.Items)
		a.refreshDerived()
		return a, nil

	case MutationDone:
		a.cfg.Updater.Finish(msg.Result)
		a.refreshDerived()
		if a.cfg.Toasts != nil {
			if msgs := a.cfg.Toasts.Drain(); len(msgs) > 0 {
				return a.showToast(msgs[len(msgs)-1])
			}
		}
		return a, nil

	case clearToastMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKey processes board-mode keyboard input.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the toast
	if a.toast != "" {
		a.toast = ""
	}

	dragging := a.cfg.Drag != nil && a.cfg.Drag.State() == board.DragActive

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		a.row++
		a.clampCursor()
		return a, nil

	case "k", "up":
		a.row--
		a.clampCursor()
		return a, nil

	case "h", "left":
		if a.col > 0 {
			a.col--
			a.clampCursor()
		}
		return a, nil

	case "l", "right":
		if a.col < len(news.Statuses)-1 {
			a.col++
			a.clampCursor()
		}
		return a, nil

	case " ":
		if dragging {
			return a.dropCard()
		}
		return a.pickUpCard()

	case "enter":
		if dragging {
			return a.dropCard()
		}
		return a, nil

	case "esc":
		if dragging {
			a.cfg.Drag.Cancel()
		}
		return a, nil

	case "f":
		if it, ok := a.itemUnderCursor(); ok {
			cmd := a.mutateCmd(board.Intent{ItemID: it.ID, Kind: board.IntentFavoriteToggle})
			return a, cmd
		}
		return a, nil

	case "n":
		if it, ok := a.itemUnderCursor(); ok {
			a.noteEditing = true
			a.noteItemID = it.ID
			a.noteInput.SetValue(it.Note)
			a.noteInput.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case "c":
		a.cycleCategoryFilter()
		a.refreshDerived()
		return a, nil

	case "F":
		on := !a.cfg.Filter.Spec().FavoritesOnly
		a.cfg.Filter.Set(board.FilterPatch{FavoritesOnly: &on})
		a.refreshDerived()
		return a, nil

	case "x":
		a.cfg.Filter.Clear()
		a.refreshDerived()
		return a, nil

	case "r":
		if a.cfg.Refresh != nil && !a.loading {
			a.loading = true
			return a, tea.Batch(a.cfg.Refresh(), a.spin.Tick)
		}
		return a, nil
	}

	return a, nil
}

// pickUpCard starts dragging the card under the cursor.
func (a App) pickUpCard() (tea.Model, tea.Cmd) {
	it, ok := a.itemUnderCursor()
	if !ok {
		return a, nil
	}
	if err := a.cfg.Drag.Start(it.ID); err != nil {
		return a.showToast("Can't pick up item: " + err.Error())
	}
	return a, nil
}

// dropCard drops the carried card on the column under the cursor. Same
// column or vanished item means no mutation.
func (a App) dropCard() (tea.Model, tea.Cmd) {
	intent := a.cfg.Drag.Drop(news.Statuses[a.col])
	if intent == nil {
		return a, nil
	}
	cmd := a.mutateCmd(*intent)
	return a, cmd
}

// mutateCmd begins an optimistic mutation and returns the Cmd that runs its
// remote call. The store already shows the change when this returns.
func (a *App) mutateCmd(intent board.Intent) tea.Cmd {
	m, err := a.cfg.Updater.Begin(intent)
	if err != nil {
		// Item is gone or the intent was malformed; nothing was applied.
		return nil
	}
	a.refreshDerived()
	ctx, updater := a.cfg.Ctx, a.cfg.Updater
	return func() tea.Msg {
		return MutationDone{Result: updater.Do(ctx, m)}
	}
}

// handleNoteKey processes note-editor keyboard input.
func (a App) handleNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.noteEditing = false
		a.noteInput.Blur()
		return a, nil

	case "enter":
		a.noteEditing = false
		a.noteInput.Blur()
		id := a.noteItemID
		note := a.noteInput.Value()
		if note == "" {
			cmd := a.mutateCmd(board.Intent{ItemID: id, Kind: board.IntentNoteDelete})
			return a, cmd
		}
		cmd := a.mutateCmd(board.Intent{ItemID: id, Kind: board.IntentNoteUpsert, Note: note})
		return a, cmd

	case "ctrl+d":
		a.noteEditing = false
		a.noteInput.Blur()
		cmd := a.mutateCmd(board.Intent{ItemID: a.noteItemID, Kind: board.IntentNoteDelete})
		return a, cmd
	}

	var cmd tea.Cmd
	a.noteInput, cmd = a.noteInput.Update(msg)
	return a, cmd
}

// cycleCategoryFilter steps the category constraint through
// none -> general -> ... -> opinion -> none.
func (a *App) cycleCategoryFilter() {
	cur := a.cfg.Filter.Spec().Category
	if cur == nil {
		first := news.Categories[0]
		a.cfg.Filter.Set(board.FilterPatch{Category: &first})
		return
	}
	for i, c := range news.Categories {
		if c == *cur {
			if i == len(news.Categories)-1 {
				a.cfg.Filter.Set(board.FilterPatch{ClearCategory: true})
			} else {
				next := news.Categories[i+1]
				a.cfg.Filter.Set(board.FilterPatch{Category: &next})
			}
			return
		}
	}
	a.cfg.Filter.Set(board.FilterPatch{ClearCategory: true})
}

// showToast sets the toast line and arms its dismissal timer.
func (a App) showToast(msg string) (tea.Model, tea.Cmd) {
	a.toast = msg
	a.toastSeq++
	seq := a.toastSeq
	return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sections []string

	if a.stats.Total > 0 {
		sections = append(sections, RenderStats(a.stats, a.width))
	}

	if line := RenderFilterLine(a.cfg.Filter.Spec(), a.visible.Total(), a.stats.Total, a.width); line != "" {
		sections = append(sections, line)
	}

	boardHeight := a.height - len(sections) - 2 // toast/status lines
	draggingID := ""
	if a.cfg.Drag != nil {
		draggingID = a.cfg.Drag.ItemID()
	}
	sections = append(sections, RenderBoard(a.visible, a.col, a.row, draggingID, a.width, boardHeight))

	if a.noteEditing {
		sections = append(sections, NotePrompt.Render("note> ")+a.noteInput.View())
	} else if a.toast != "" {
		sections = append(sections, ErrorStyle.Width(a.width).Render(a.toast+" (press any key to dismiss)"))
	}

	sections = append(sections, a.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderStatusBar() string {
	hints := "space: move card | f: favorite | n: note | c/F: filter | x: clear | r: refresh | q: quit"
	if a.cfg.Drag != nil && a.cfg.Drag.State() == board.DragActive {
		hints = "h/l: carry to column | space/enter: drop | esc: cancel"
	}
	bar := hints
	if a.loading {
		bar = a.spin.View() + " " + hints
	}
	return StatusBar.Width(a.width).Render(bar)
}

// Cursor returns the cursor position (for testing).
func (a App) Cursor() (col, row int) { return a.col, a.row }

// Toast returns the current toast line (for testing).
func (a App) Toast() string { return a.toast }

// Visible returns the current derived snapshot (for testing).
func (a App) Visible() board.Snapshot { return a.visible }
