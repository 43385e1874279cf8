package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/newsboard/internal/api"
	"github.com/abelbrown/newsboard/internal/cache"
	"github.com/abelbrown/newsboard/internal/config"
	"github.com/abelbrown/newsboard/internal/coord"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the board from the backend into the local cache",
	RunE:  runRefresh,
}

// runRefresh performs one fetch-and-cache cycle and exits. Useful for
// warming the cache from cron or before going offline.
func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	snap, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer snap.Close()

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.RequestTimeout())
	coordinator := coord.New(client, snap, cfg.Server.PageSize, cfg.RefreshInterval())

	coordinator.Refresh(context.Background(), nil)

	count, err := snap.ItemCount()
	if err != nil {
		return fmt.Errorf("count cache: %w", err)
	}
	fmt.Printf("Cached %d items\n", count)
	return nil
}
