// Package ui provides the Bubble Tea TUI for newsboard.
package ui

import (
	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/news"
)

// CacheLoaded is sent when the local snapshot cache has been read at
// startup. Err is non-nil when the cache was unreadable; the board just
// stays empty until the first refresh.
type CacheLoaded struct {
	Items []news.Item
	Err   error
}

// RefreshDone is sent when a fetch from the backend finishes, either the
// background coordinator's cycle or a manual refresh.
type RefreshDone struct {
	Items []news.Item
	Err   error
}

// MutationDone is sent when an optimistic mutation's remote call settles.
type MutationDone struct {
	Result board.Result
}

// clearToastMsg dismisses the error toast after its display window.
type clearToastMsg struct {
	seq int // toast generation, so an old timer can't clear a newer toast
}
