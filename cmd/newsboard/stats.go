package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/cache"
	"github.com/abelbrown/newsboard/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print board statistics from the local cache",
	RunE:  runStats,
}

// runStats derives the aggregate counts from the cached board, without
// touching the network. Counts always cover the full set; there is no
// filtered view outside the TUI.
func runStats(cmd *cobra.Command, args []string) error {
	snap, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer snap.Close()

	items, err := snap.LoadItems()
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}

	store := board.NewStore()
	store.Load(items)
	st := board.ComputeStats(store.Snapshot())

	fmt.Printf("To Read:    %d\n", st.Pending)
	fmt.Printf("Reading:    %d\n", st.Reading)
	fmt.Printf("Completed:  %d\n", st.Read)
	fmt.Printf("Favorites:  %d\n", st.Favorites)
	fmt.Printf("Total:      %d\n", st.Total)

	cachedAt, err := snap.CachedAt()
	if err == nil && !cachedAt.IsZero() {
		fmt.Printf("\nCached at:  %s\n", cachedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
