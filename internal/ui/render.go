package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/news"
)

// minColumnWidth is the narrowest a column renders before the board gives up
// on side-by-side layout niceties and just truncates harder.
const minColumnWidth = 16

// RenderBoard renders the three columns side by side.
//
// cursorCol/cursorRow locate the cursor within the visible snapshot;
// draggingID marks the card being carried ("" when idle). While dragging,
// the cursor column doubles as the drop target.
func RenderBoard(sn board.Snapshot, cursorCol, cursorRow int, draggingID string, width, height int) string {
	if sn.Total() == 0 {
		return HelpStyle.Render("Board is empty. Press 'r' to refresh, 'x' to clear filters.")
	}

	colWidth := width/len(news.Statuses) - 2 // border + padding overhead
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	colHeight := height - 2
	if colHeight < 3 {
		colHeight = 3
	}

	columns := make([]string, 0, len(news.Statuses))
	for i, st := range news.Statuses {
		items := sn.Column(st)

		frame := ColumnStyle
		if draggingID != "" && i == cursorCol {
			frame = DropTargetStyle
		} else if i == cursorCol {
			frame = ActiveColumnStyle
		}

		body := renderColumn(items, st, i == cursorCol, cursorRow, draggingID, colWidth, colHeight)
		columns = append(columns, frame.Width(colWidth).Height(colHeight).Render(body))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderColumn renders one column: header line plus as many cards as fit,
// scrolled to keep the cursor visible.
func renderColumn(items []news.Item, st news.Status, active bool, cursorRow int, draggingID string, width, height int) string {
	var b strings.Builder
	b.WriteString(ColumnHeader.Render(fmt.Sprintf("%s (%d)", st.ColumnTitle(), len(items))))
	b.WriteString("\n")

	available := height - 2 // header + its blank line
	if available < 1 {
		available = 1
	}

	offset := 0
	if active && cursorRow >= available {
		offset = cursorRow - available + 1
	}

	rendered := 0
	for i := offset; i < len(items) && rendered < available; i++ {
		b.WriteString(renderCard(items[i], active && i == cursorRow, draggingID, width))
		b.WriteString("\n")
		rendered++
	}
	if len(items) == 0 {
		b.WriteString(HelpStyle.Render("-"))
	}

	return b.String()
}

// renderCard renders a single item as one line.
func renderCard(it news.Item, selected bool, draggingID string, width int) string {
	marks := ""
	if it.Favorite {
		marks += FavoriteMark.Render("*")
	}
	if it.Note != "" {
		marks += CategoryBadge.Render("~")
	}

	label := truncateLine(it.Title, width-4-lipgloss.Width(marks))
	line := label
	if marks != "" {
		line += " " + marks
	}

	switch {
	case it.ID == draggingID:
		return DraggedCard.Render("> " + line)
	case selected:
		return SelectedCard.Render("  " + line)
	default:
		return NormalCard.Render("  " + line)
	}
}

// truncateLine shortens s to at most w display cells, adding "..." when cut.
func truncateLine(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	runes := []rune(s)
	if w <= 3 {
		return string(runes[:w])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes)) > w-3 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// RenderStats renders the aggregate counts line. The counts cover the whole
// board regardless of active filters; see board.ComputeStats.
func RenderStats(st news.Stats, width int) string {
	line := fmt.Sprintf("To Read %d | Reading %d | Completed %d | Favorites %d | Total %d",
		st.Pending, st.Reading, st.Read, st.Favorites, st.Total)
	return StatsBar.Width(width).Render(line)
}

// RenderFilterLine renders the active-filter summary, or "" when the spec is
// empty.
func RenderFilterLine(spec news.FilterSpec, visible, total int, width int) string {
	var parts []string
	if spec.Category != nil {
		parts = append(parts, "category="+string(*spec.Category))
	}
	if spec.FavoritesOnly {
		parts = append(parts, "favorites")
	}
	if spec.From != nil {
		parts = append(parts, "from="+spec.From.Format("2006-01-02"))
	}
	if spec.To != nil {
		parts = append(parts, "to="+spec.To.Format("2006-01-02"))
	}
	if len(parts) == 0 {
		return ""
	}
	line := fmt.Sprintf("filter: %s  (%d of %d shown, x to clear)",
		strings.Join(parts, " "), visible, total)
	return FilterBar.Width(width).Render(line)
}
