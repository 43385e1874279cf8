package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/newsboard/internal/api"
	"github.com/abelbrown/newsboard/internal/board"
	"github.com/abelbrown/newsboard/internal/cache"
	"github.com/abelbrown/newsboard/internal/config"
	"github.com/abelbrown/newsboard/internal/coord"
	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/ui"
)

// runBoard wires everything together and runs the TUI until quit.
func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local snapshot cache: non-fatal, the board just starts empty.
	var snap *cache.Cache
	if c, err := cache.Open(config.CachePath()); err != nil {
		logging.Warn("Cache unavailable", "error", err)
	} else {
		snap = c
		defer snap.Close()
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.RequestTimeout())

	// Board engine: store, optimistic updater, drag machine, filter.
	store := board.NewStore()
	toasts := ui.NewToastBuf()
	updater := board.NewUpdater(store, client, toasts.Push)
	defer updater.Close()

	appCfg := ui.AppConfig{
		Ctx:     ctx,
		Store:   store,
		Updater: updater,
		Drag:    board.NewDrag(store),
		Filter:  board.NewFilter(),
		Toasts:  toasts,
	}

	if snap != nil {
		appCfg.LoadCache = func() tea.Cmd {
			return func() tea.Msg {
				items, err := snap.LoadItems()
				return ui.CacheLoaded{Items: items, Err: err}
			}
		}
	}

	// Coordinator owns periodic refresh; manual 'r' runs one extra cycle
	// through the same path.
	var writeThrough coord.SnapshotCache
	if snap != nil {
		writeThrough = snap
	}
	coordinator := coord.New(client, writeThrough, cfg.Server.PageSize, cfg.RefreshInterval())

	var program *tea.Program
	appCfg.Refresh = func() tea.Cmd {
		return func() tea.Msg {
			coordinator.Refresh(ctx, program)
			return nil
		}
	}

	program = tea.NewProgram(ui.NewApp(appCfg), tea.WithAltScreen())

	coordinator.Start(ctx, program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	// Graceful shutdown: stop background refresh, drop late responses.
	cancel()
	coordinator.Wait()
	return nil
}
