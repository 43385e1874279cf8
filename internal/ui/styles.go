package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Orange
)

// ColumnStyle frames one board column.
var ColumnStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// ActiveColumnStyle frames the column holding the cursor.
var ActiveColumnStyle = ColumnStyle.
	BorderForeground(colorPrimary)

// DropTargetStyle frames the column a dragged card would land in.
var DropTargetStyle = ColumnStyle.
	BorderForeground(colorSuccess)

// ColumnHeader style for column titles and counts.
var ColumnHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// SelectedCard style for the card under the cursor.
var SelectedCard = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// DraggedCard style for the card being carried.
var DraggedCard = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorSuccess)

// NormalCard style for everything else.
var NormalCard = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// FavoriteMark style for the favorite star.
var FavoriteMark = lipgloss.NewStyle().
	Foreground(colorWarn)

// CategoryBadge style for the per-card category label.
var CategoryBadge = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StatsBar style for the aggregate counts line.
var StatsBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// FilterBar style for the active-filter line.
var FilterBar = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// StatusBar style for the bottom key-hint bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// ErrorStyle for the toast line.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for empty-board help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// NotePrompt style for the note editor prompt.
var NotePrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true).
	Padding(0, 1)
